package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/pkg/events"
	pktNats "financial-assistant-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Tails the workspace event stream. Handy for watching what a running demo
// session is doing to its cache tree.
func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}
	cfg := config.Load()

	url := flag.String("url", cfg.App.NatsURL, "NATS server URL")
	subject := flag.String("subject", "workspace.>", "subject filter")
	durable := flag.String("durable", "events-tail", "durable consumer name")
	flag.Parse()

	sub, err := pktNats.NewSubscriber(*url)
	if err != nil {
		log.Fatalf("NATS connection failed: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe(*subject, *durable, func(ctx context.Context, event events.Event) error {
		data, _ := json.Marshal(event.Payload())
		switch event.EventType() {
		case events.TypeDeletionFired, events.TypeCacheCleared:
			color.Red("%-22s %s", event.EventType(), data)
		case events.TypeDeletionScheduled, events.TypeDeletionCanceled:
			color.Yellow("%-22s %s", event.EventType(), data)
		default:
			color.Green("%-22s %s", event.EventType(), data)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	color.Cyan("👂 Tailing %s on %s (Ctrl+C to stop)", *subject, *url)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
