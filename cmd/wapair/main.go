// Command wapair pairs a WhatsApp device for the storefront hand-off.
// Run it once on the host, scan the QR with the merchant's phone, then
// enable whatsapp in the server config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdp/qrterminal/v3"

	"github.com/talkincode/pedeai/config"
	"github.com/talkincode/pedeai/internal/whatsapp"
)

var configFile = flag.String("c", "/etc/pedeai.yml", "config file")

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)

	svc, err := whatsapp.New(cfg.WhatsApp)
	if err != nil {
		log.Fatalf("whatsapp init failed: %v", err)
	}

	if svc.Paired() {
		fmt.Println("device already paired, nothing to do")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qrChan, err := svc.QRChannel(ctx)
	if err != nil {
		log.Fatalf("qr channel failed: %v", err)
	}
	if err := svc.Connect(); err != nil {
		log.Fatalf("connect failed: %v", err)
	}

	for item := range qrChan {
		switch item.Event {
		case "code":
			fmt.Println("Scan this QR with WhatsApp on the merchant's phone:")
			qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, os.Stdout)
		case "success":
			fmt.Println("Paired successfully.")
			return
		default:
			fmt.Println("pairing event:", item.Event)
		}
	}
}
