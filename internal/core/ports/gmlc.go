package ports

import (
	"context"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// GMLCClient performs one synchronous location query against the Gateway
// Mobile Location Center. Transport errors, timeouts, unexpected content
// types and malformed response payloads are returned as errors; a
// GMLC-reported ERROR result is a valid outcome with Status failed.
type GMLCClient interface {
	Locate(ctx context.Context, req *domain.GMLCRequest) (*domain.MediationOutcome, error)
}
