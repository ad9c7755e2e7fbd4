package workflows

import (
	"context"
	"errors"

	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/core/usecases"
)

// ReportOutcome tells the workflow whether to keep going.
type ReportOutcome struct {
	Gone bool // record no longer exists
	Last bool // record flagged its final report
}

// ReportActivities holds the activity implementations for periodic
// deferred-location reporting.
type ReportActivities struct {
	Service *usecases.GeolocationService
}

// RefreshGeolocation performs one mediation round for the record. The
// service absorbs GMLC failures into the record, so only storage errors
// surface here.
func (a *ReportActivities) RefreshGeolocation(ctx context.Context, accountSid, sid string) (ReportOutcome, error) {
	g, err := a.Service.Update(ctx, accountSid, sid, &usecases.GeolocationRequest{}, false)
	if errors.Is(err, domain.ErrNotFound) {
		return ReportOutcome{Gone: true}, nil
	}
	if err != nil {
		return ReportOutcome{}, err
	}
	last := g.LastGeolocationResponse != nil && *g.LastGeolocationResponse
	return ReportOutcome{Last: last}, nil
}

// MarkLastResponse flags the record's reporting sequence as finished.
func (a *ReportActivities) MarkLastResponse(ctx context.Context, accountSid, sid string) error {
	last := "true"
	_, err := a.Service.Update(ctx, accountSid, sid, &usecases.GeolocationRequest{
		LastGeolocationResponse: &last,
	}, false)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
