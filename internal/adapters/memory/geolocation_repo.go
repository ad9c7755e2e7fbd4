package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// GeolocationRepo is an in-memory ports.GeolocationRepository for local
// development and tests.
type GeolocationRepo struct {
	mu      sync.RWMutex
	records map[string]domain.Geolocation // sid -> record
}

// NewGeolocationRepo creates an empty store.
func NewGeolocationRepo() *GeolocationRepo {
	return &GeolocationRepo{records: make(map[string]domain.Geolocation)}
}

func (r *GeolocationRepo) Insert(_ context.Context, g *domain.Geolocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[g.Sid] = *g
	return nil
}

func (r *GeolocationRepo) Update(_ context.Context, g *domain.Geolocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[g.Sid]
	if !ok || stored.AccountSid != g.AccountSid {
		return domain.ErrNotFound
	}
	r.records[g.Sid] = *g
	return nil
}

func (r *GeolocationRepo) GetBySid(_ context.Context, accountSid, sid string) (*domain.Geolocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.records[sid]
	if !ok || g.AccountSid != accountSid {
		return nil, domain.ErrNotFound
	}
	out := g
	return &out, nil
}

func (r *GeolocationRepo) ListByAccount(_ context.Context, accountSid string) ([]domain.Geolocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Geolocation
	for _, g := range r.records {
		if g.AccountSid == accountSid {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateCreated.After(out[j].DateCreated)
	})
	return out, nil
}

func (r *GeolocationRepo) Delete(_ context.Context, accountSid, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.records[sid]
	if !ok || g.AccountSid != accountSid {
		return domain.ErrNotFound
	}
	delete(r.records, sid)
	return nil
}
