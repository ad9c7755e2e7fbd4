package ports

import (
	"context"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// EventPublisher publishes geolocation lifecycle events to a message broker.
type EventPublisher interface {
	PublishGeolocationEvent(ctx context.Context, event string, g *domain.Geolocation) error
	// PublishNotification pushes one deferred location report for a
	// Notification-type record.
	PublishNotification(ctx context.Context, g *domain.Geolocation) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ReportScheduler starts the periodic deferred-location reporting sequence
// for a Notification-type record.
type ReportScheduler interface {
	ScheduleReports(ctx context.Context, accountSid, sid string, amount, intervalSeconds int) error
}
