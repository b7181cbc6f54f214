// Package events records storefront analytics events. Events are accepted
// fast on the request path and processed on a worker pool: persisted to the
// local database and forwarded to the CMS best effort.
package events

import (
	"context"
	"time"

	evbus "github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/pedeai/internal/cms"
	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/common"
	"github.com/talkincode/pedeai/pkg/metrics"
)

// Storefront event names.
const (
	EventAddToCart      = "ADD_TO_CART"
	EventRemoveFromCart = "REMOVE_FROM_CART"
	EventUpdateCart     = "UPDATE_CART"
	EventRegisterSale   = "REGISTER_SALE"
	EventFilledAddress  = "FILLED_ADDRESS"
	EventViewCart       = "VIEW_CART"
)

const topicTrack = "events.track"

var knownNames = map[string]struct{}{
	EventAddToCart:      {},
	EventRemoveFromCart: {},
	EventUpdateCart:     {},
	EventRegisterSale:   {},
	EventFilledAddress:  {},
	EventViewCart:       {},
}

// ErrUnknownEvent is returned for names outside the tracked set.
var ErrUnknownEvent = errors.New("events: unknown event name")

// ValidName reports whether name belongs to the tracked event set.
func ValidName(name string) bool {
	_, ok := knownNames[name]
	return ok
}

// Event is one analytics event attributed to a storefront session.
type Event struct {
	Name       string                 `json:"name"`
	SessionID  string                 `json:"session_id"`
	Properties map[string]interface{} `json:"properties"`
}

// Forwarder pushes events upstream to the CMS.
type Forwarder interface {
	CreateEvent(ctx context.Context, event cms.EventPayload) error
}

// Dispatcher fans events out to local storage and the CMS.
type Dispatcher struct {
	bus       evbus.Bus
	pool      *ants.Pool
	db        *gorm.DB
	forwarder Forwarder
	timeout   time.Duration
}

// NewDispatcher wires the bus, the worker pool and the sinks. db and
// forwarder may each be nil; the matching sink is skipped.
func NewDispatcher(db *gorm.DB, forwarder Forwarder) (*Dispatcher, error) {
	pool, err := ants.NewPool(16)
	if err != nil {
		return nil, errors.Wrap(err, "events: init pool")
	}
	d := &Dispatcher{
		bus:       evbus.New(),
		pool:      pool,
		db:        db,
		forwarder: forwarder,
		timeout:   10 * time.Second,
	}
	if err := d.bus.Subscribe(topicTrack, d.dispatch); err != nil {
		pool.Release()
		return nil, errors.Wrap(err, "events: subscribe")
	}
	return d, nil
}

// Track validates and accepts an event. The caller returns immediately;
// sink failures are logged, never surfaced.
func (d *Dispatcher) Track(event Event) error {
	if !ValidName(event.Name) {
		return errors.Wrap(ErrUnknownEvent, event.Name)
	}
	metrics.RecordCounter(metrics.MetricEventsAccepted)
	d.bus.Publish(topicTrack, event)
	return nil
}

func (d *Dispatcher) dispatch(event Event) {
	err := d.pool.Submit(func() {
		d.persist(event)
		d.forward(event)
	})
	if err != nil {
		zap.L().Warn("event dropped, pool unavailable", zap.String("name", event.Name), zap.Error(err))
	}
}

func (d *Dispatcher) persist(event Event) {
	if d.db == nil {
		return
	}
	properties, err := jsoniter.MarshalToString(event.Properties)
	if err != nil {
		properties = "{}"
	}
	record := domain.TrackEvent{
		ID:         common.UUIDint64(),
		SessionID:  event.SessionID,
		Name:       event.Name,
		Properties: properties,
		CreatedAt:  time.Now(),
	}
	if err := d.db.Create(&record).Error; err != nil {
		zap.L().Warn("event persist failed", zap.String("name", event.Name), zap.Error(err))
	}
}

func (d *Dispatcher) forward(event Event) {
	if d.forwarder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	err := d.forwarder.CreateEvent(ctx, cms.EventPayload{
		EventName:       event.Name,
		EventProperties: event.Properties,
		SessionID:       event.SessionID,
	})
	if err != nil {
		zap.L().Warn("event forward failed", zap.String("name", event.Name), zap.Error(err))
	}
}

// Close drains the worker pool.
func (d *Dispatcher) Close() {
	d.pool.Release()
}
