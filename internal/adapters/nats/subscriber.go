package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// Subscriber consumes geolocation subjects from NATS JetStream. The
// WebSocket relay and the status-callback dispatcher are its two consumers.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeNotifications delivers every deferred location report, across all
// accounts, to the handler. Used by the status-callback dispatcher.
func (s *Subscriber) SubscribeNotifications(ctx context.Context, durable string, handler func(ctx context.Context, g *domain.Geolocation) error) error {
	sub, err := s.js.Subscribe(subjectNotificationPrefix+">", func(msg *nats.Msg) {
		var g domain.Geolocation
		if err := json.Unmarshal(msg.Data, &g); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &g); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeAccountNotifications delivers reports for one account only. Used
// by the per-connection WebSocket relay, so the subscription is ephemeral.
func (s *Subscriber) SubscribeAccountNotifications(ctx context.Context, accountSid string, handler func(ctx context.Context, g *domain.Geolocation) error) (*nats.Subscription, error) {
	return s.conn.Subscribe(subjectNotificationPrefix+accountSid, func(msg *nats.Msg) {
		var g domain.Geolocation
		if err := json.Unmarshal(msg.Data, &g); err != nil {
			return
		}
		_ = handler(ctx, &g)
	})
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
