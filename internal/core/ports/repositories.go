package ports

import (
	"context"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// GeolocationRepository persists canonical geolocation records. All reads and
// mutations are scoped to the owning account. GetBySid and Delete return
// domain.ErrNotFound when no record exists for the account.
type GeolocationRepository interface {
	Insert(ctx context.Context, g *domain.Geolocation) error
	Update(ctx context.Context, g *domain.Geolocation) error
	GetBySid(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error)
	// ListByAccount returns records most-recent-first.
	ListByAccount(ctx context.Context, accountSid string) ([]domain.Geolocation, error)
	Delete(ctx context.Context, accountSid, sid string) error
}
