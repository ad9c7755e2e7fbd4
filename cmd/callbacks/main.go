package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/endikaluq/geolink/internal/adapters/nats"
	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/pkg/config"
	"github.com/endikaluq/geolink/internal/pkg/logging"
)

// The callbacks dispatcher consumes deferred location reports from NATS and
// delivers each one to the record's StatusCallback webhook.
func main() {
	cfg, err := config.Load("geolink-callbacks")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	httpClient := &http.Client{Timeout: 10 * time.Second}

	err = sub.SubscribeNotifications(ctx, "callback-dispatcher", func(ctx context.Context, g *domain.Geolocation) error {
		if g.StatusCallback == nil || *g.StatusCallback == "" {
			return nil
		}
		return deliver(ctx, httpClient, *g.StatusCallback, g)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("callback dispatcher started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("callback dispatcher stopping")
}

func deliver(ctx context.Context, client *http.Client, url string, g *domain.Geolocation) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("callback delivery failed", "sid", g.Sid, "url", url, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("callback rejected", "sid", g.Sid, "url", url, "status", resp.StatusCode)
		return fmt.Errorf("callback %s returned %d", url, resp.StatusCode)
	}
	return nil
}
