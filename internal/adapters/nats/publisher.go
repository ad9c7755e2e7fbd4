package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// Deferred location reports are fanned out per account so the WebSocket
// relay can subscribe selectively.
const subjectNotificationPrefix = "geolocation.notification."

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the streams
// backing lifecycle events and deferred location reports exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streams := []nats.StreamConfig{
		{
			Name:      "GEOLOCATION_EVENTS",
			Subjects:  []string{"geolocation.created", "geolocation.updated", "geolocation.deleted"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "GEOLOCATION_NOTIFICATIONS",
			Subjects:  []string{"geolocation.notification.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishGeolocationEvent publishes one lifecycle event (created, updated,
// deleted) with the full record as payload.
func (p *Publisher) PublishGeolocationEvent(ctx context.Context, event string, g *domain.Geolocation) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(event, data)
	return err
}

// PublishNotification pushes one deferred location report onto the
// per-account notification subject.
func (p *Publisher) PublishNotification(ctx context.Context, g *domain.Geolocation) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectNotificationPrefix+g.AccountSid, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket notification relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
