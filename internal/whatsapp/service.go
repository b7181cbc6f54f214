// Package whatsapp wraps a whatsmeow client used to hand orders straight
// to the merchant's WhatsApp. A single paired device is enough for one
// storefront.
package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/talkincode/pedeai/config"
)

// Service wraps the whatsmeow client and its pairing state.
type Service struct {
	store  *sqlstore.Container
	client *whatsmeow.Client
	qr     string
	qrLock sync.RWMutex
}

// New opens the sqlite device store and builds a client for the stored
// device, or an unpaired one when no device exists yet.
func New(cfg config.WhatsAppConfig) (*Service, error) {
	container, err := sqlstore.New(context.Background(), "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=on", cfg.StorePath), nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: open device store: %w", err)
	}

	device, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("whatsapp: load device: %w", err)
	}

	svc := &Service{store: container, client: whatsmeow.NewClient(device, nil)}
	svc.client.AddEventHandler(svc.handleEvent)
	setGlobalService(svc)
	return svc, nil
}

func (s *Service) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.QR:
		if len(e.Codes) > 0 {
			s.qrLock.Lock()
			s.qr = e.Codes[0]
			s.qrLock.Unlock()
			zap.L().Info("whatsapp: qr code available", zap.Int("code_len", len(e.Codes[0])))
		}
	case *events.Connected:
		s.qrLock.Lock()
		s.qr = ""
		s.qrLock.Unlock()
		zap.L().Info("whatsapp: connected")
	case *events.LoggedOut:
		zap.L().Warn("whatsapp: device logged out, pair again")
	}
}

// Start connects the client and blocks until ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	zap.L().Info("whatsapp: starting client")
	go func() {
		if err := s.client.Connect(); err != nil {
			zap.L().Warn("whatsapp: connect failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("whatsapp: shutting down client")
	s.client.Disconnect()
	return nil
}

// ConnectAsync triggers a non-blocking connect attempt. Errors are logged.
func (s *Service) ConnectAsync() {
	go func() {
		if err := s.client.Connect(); err != nil {
			zap.L().Warn("whatsapp: connect failed", zap.Error(err))
		}
	}()
}

// Paired reports whether a device is stored and logged in.
func (s *Service) Paired() bool {
	return s != nil && s.client != nil && s.client.Store.ID != nil
}

// QRCode returns the latest pairing code, empty when none is outstanding.
// The caller renders the QR image from the raw code.
func (s *Service) QRCode() string {
	if s == nil {
		return ""
	}
	s.qrLock.RLock()
	defer s.qrLock.RUnlock()
	return s.qr
}

// QRChannel exposes whatsmeow's pairing channel for terminal pairing
// tools. Must be called before the first Connect.
func (s *Service) QRChannel(ctx context.Context) (<-chan whatsmeow.QRChannelItem, error) {
	return s.client.GetQRChannel(ctx)
}

// Connect dials synchronously. Used by pairing tools after QRChannel.
func (s *Service) Connect() error {
	return s.client.Connect()
}

// SendText sends a plain text message to the given phone or JID.
func (s *Service) SendText(ctx context.Context, to string, text string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("whatsapp service not initialized")
	}
	if !s.client.IsConnected() {
		return fmt.Errorf("whatsapp client not connected")
	}

	parsed, err := waTypes.ParseJID(PhoneToJID(to))
	if err != nil {
		zap.L().Warn("whatsapp: invalid jid", zap.Error(err), zap.String("to", to))
		return err
	}

	msg := &waE2E.Message{Conversation: proto.String(text)}
	if _, err = s.client.SendMessage(ctx, parsed, msg); err != nil {
		zap.L().Warn("whatsapp: send message failed", zap.Error(err))
		return err
	}
	zap.L().Info("whatsapp: message sent", zap.String("to", parsed.String()))
	return nil
}

// PhoneToJID turns a bare phone number into a user JID. Strings already
// carrying a server part pass through unchanged.
func PhoneToJID(phone string) string {
	if strings.Contains(phone, "@") {
		return phone
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String() + "@" + waTypes.DefaultUserServer
}

var globalSvc *Service
var globalSvcLock sync.RWMutex

func setGlobalService(s *Service) {
	globalSvcLock.Lock()
	defer globalSvcLock.Unlock()
	globalSvc = s
}

// Get returns the running service instance, nil when disabled.
func Get() *Service {
	globalSvcLock.RLock()
	defer globalSvcLock.RUnlock()
	return globalSvc
}
