package http

import (
	"github.com/nats-io/nats.go"

	"github.com/endikaluq/geolink/internal/adapters/postgres"
	"github.com/endikaluq/geolink/internal/adapters/valkey"
	"github.com/endikaluq/geolink/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Geolocations *usecases.GeolocationService
	NATS         *nats.Conn
	DB           *postgres.DB
	Cache        *valkey.Cache
}
