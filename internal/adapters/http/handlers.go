package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// geolocationPayload is the external representation of a record. Dates are
// RFC 1123, field names snake_case, and sparse fields are omitted entirely.
type geolocationPayload struct {
	Sid              string  `json:"sid"`
	AccountSid       string  `json:"account_sid"`
	GeolocationType  string  `json:"geolocation_type"`
	DeviceIdentifier string  `json:"device_identifier"`
	Domain           *string `json:"domain,omitempty"`
	CoreNetwork      *string `json:"core_network,omitempty"`
	StatusCallback   *string `json:"status_callback,omitempty"`

	DateCreated  string  `json:"date_created"`
	DateUpdated  string  `json:"date_updated"`
	DateExecuted *string `json:"date_executed,omitempty"`

	ResponseStatus  string                       `json:"response_status"`
	ReferenceNumber *int64                       `json:"reference_number,omitempty"`
	Identifiers     domain.SubscriberIdentifiers `json:"subscriber_identifiers"`
	Data            domain.GeolocationData       `json:"geolocation_data"`

	LastGeolocationResponse *bool   `json:"last_geolocation_response,omitempty"`
	Cause                   *string `json:"cause,omitempty"`
	APIVersion              string  `json:"api_version"`
	URI                     string  `json:"uri"`
}

func presentGeolocation(g *domain.Geolocation) geolocationPayload {
	p := geolocationPayload{
		Sid:              g.Sid,
		AccountSid:       g.AccountSid,
		GeolocationType:  string(g.Type),
		DeviceIdentifier: g.DeviceIdentifier,
		Domain:           g.Domain,
		CoreNetwork:      g.CoreNetwork,
		StatusCallback:   g.StatusCallback,

		DateCreated: g.DateCreated.Format(time.RFC1123),
		DateUpdated: g.DateUpdated.Format(time.RFC1123),

		ResponseStatus:  string(g.ResponseStatus),
		ReferenceNumber: g.ReferenceNumber,
		Identifiers:     g.Identifiers,
		Data:            g.Data,

		LastGeolocationResponse: g.LastGeolocationResponse,
		Cause:                   g.Cause,
		APIVersion:              g.APIVersion,
		URI:                     "/v1/accounts/" + g.AccountSid + "/geolocations/" + g.Sid,
	}
	if g.DateExecuted != nil {
		s := g.DateExecuted.Format(time.RFC1123)
		p.DateExecuted = &s
	}
	return p
}

// CreateGeolocationHandler performs one mediation round and returns the
// persisted record, failed outcomes included.
func CreateGeolocationHandler(deps *Dependencies, gType domain.GeolocationType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseGeolocationParams(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		g, err := deps.Geolocations.Create(c.Context(), c.Params("account"), gType, req)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return errBadRequest(c, verr.Error())
			}
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(presentGeolocation(g))
	}
}

// GetGeolocationHandler returns one record.
func GetGeolocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := deps.Geolocations.Get(c.Context(), c.Params("account"), c.Params("sid"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "geolocation not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(presentGeolocation(g))
	}
}

// ListGeolocationsHandler returns all records of the account, most recent
// first, with offset pagination.
func ListGeolocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := deps.Geolocations.List(c.Context(), c.Params("account"))
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		total := len(records)
		if offset >= total {
			records = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			records = records[offset:end]
		}

		payload := make([]geolocationPayload, 0, len(records))
		for i := range records {
			payload = append(payload, presentGeolocation(&records[i]))
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: payload, Pagination: pg})
	}
}

// UpdateGeolocationHandler mutates one record. POST merges the supplied
// parameters on top of the stored data; PUT rebuilds the data from exactly
// the supplied parameters, clearing everything omitted.
func UpdateGeolocationHandler(deps *Dependencies, replace bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseGeolocationParams(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		g, err := deps.Geolocations.Update(c.Context(), c.Params("account"), c.Params("sid"), req, replace)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return errBadRequest(c, verr.Error())
			}
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "geolocation not found")
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(presentGeolocation(g))
	}
}

// DeleteGeolocationHandler removes a record for good.
func DeleteGeolocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := deps.Geolocations.Delete(c.Context(), c.Params("account"), c.Params("sid"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "geolocation not found")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
