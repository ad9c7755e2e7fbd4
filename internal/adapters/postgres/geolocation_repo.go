package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// GeolocationRepo implements ports.GeolocationRepository with pgx. The
// sparse identifier and location-data groups are stored as JSONB so the
// per-network field selection survives round-trips unchanged.
type GeolocationRepo struct {
	db *DB
}

// NewGeolocationRepo creates a new GeolocationRepo.
func NewGeolocationRepo(db *DB) *GeolocationRepo {
	return &GeolocationRepo{db: db}
}

const geolocationColumns = `
	sid, account_sid, geolocation_type, device_identifier, domain, core_network,
	status_callback, date_created, date_updated, date_executed,
	response_status, reference_number, subscriber_identifiers, location_data,
	last_geolocation_response, cause, api_version`

// Insert stores a new record.
func (r *GeolocationRepo) Insert(ctx context.Context, g *domain.Geolocation) error {
	identifiers, data, err := marshalGroups(g)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO geolocations (`+geolocationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, g.Sid, g.AccountSid, g.Type, g.DeviceIdentifier, g.Domain, g.CoreNetwork,
		g.StatusCallback, g.DateCreated, g.DateUpdated, g.DateExecuted,
		g.ResponseStatus, g.ReferenceNumber, identifiers, data,
		g.LastGeolocationResponse, g.Cause, g.APIVersion)
	if err != nil {
		return fmt.Errorf("insert geolocation: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an existing record.
func (r *GeolocationRepo) Update(ctx context.Context, g *domain.Geolocation) error {
	identifiers, data, err := marshalGroups(g)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE geolocations
		SET date_updated = $3, date_executed = $4,
		    response_status = $5, reference_number = $6,
		    subscriber_identifiers = $7, location_data = $8,
		    last_geolocation_response = $9, cause = $10
		WHERE account_sid = $1 AND sid = $2
	`, g.AccountSid, g.Sid, g.DateUpdated, g.DateExecuted,
		g.ResponseStatus, g.ReferenceNumber, identifiers, data,
		g.LastGeolocationResponse, g.Cause)
	if err != nil {
		return fmt.Errorf("update geolocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBySid returns one record scoped to the account.
func (r *GeolocationRepo) GetBySid(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+geolocationColumns+`
		FROM geolocations
		WHERE account_sid = $1 AND sid = $2
	`, accountSid, sid)

	g, err := scanGeolocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return g, err
}

// ListByAccount returns all records for the account, most recent first.
func (r *GeolocationRepo) ListByAccount(ctx context.Context, accountSid string) ([]domain.Geolocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+geolocationColumns+`
		FROM geolocations
		WHERE account_sid = $1
		ORDER BY date_created DESC
	`, accountSid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Geolocation
	for rows.Next() {
		g, err := scanGeolocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// Delete removes the record for good.
func (r *GeolocationRepo) Delete(ctx context.Context, accountSid, sid string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM geolocations WHERE account_sid = $1 AND sid = $2
	`, accountSid, sid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalGroups(g *domain.Geolocation) ([]byte, []byte, error) {
	identifiers, err := json.Marshal(g.Identifiers)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal subscriber identifiers: %w", err)
	}
	data, err := json.Marshal(g.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal location data: %w", err)
	}
	return identifiers, data, nil
}

func scanGeolocation(row pgx.Row) (*domain.Geolocation, error) {
	var (
		g           domain.Geolocation
		identifiers []byte
		data        []byte
	)
	if err := row.Scan(
		&g.Sid, &g.AccountSid, &g.Type, &g.DeviceIdentifier, &g.Domain, &g.CoreNetwork,
		&g.StatusCallback, &g.DateCreated, &g.DateUpdated, &g.DateExecuted,
		&g.ResponseStatus, &g.ReferenceNumber, &identifiers, &data,
		&g.LastGeolocationResponse, &g.Cause, &g.APIVersion,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(identifiers, &g.Identifiers); err != nil {
		return nil, fmt.Errorf("unmarshal subscriber identifiers: %w", err)
	}
	if err := json.Unmarshal(data, &g.Data); err != nil {
		return nil, fmt.Errorf("unmarshal location data: %w", err)
	}
	return &g, nil
}
