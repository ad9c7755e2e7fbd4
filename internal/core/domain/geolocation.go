package domain

import (
	"strings"
	"time"
)

// APIVersion tags the external representation of every geolocation resource.
const APIVersion = "2012-04-24"

// GeolocationType distinguishes immediate from deferred (notification) requests.
type GeolocationType string

const (
	ImmediateType    GeolocationType = "Immediate"
	NotificationType GeolocationType = "Notification"
)

// ResponseStatus is the externally visible outcome of the last mediation.
type ResponseStatus string

const (
	StatusSuccessful          ResponseStatus = "successful"
	StatusPartiallySuccessful ResponseStatus = "partially-successful"
	StatusLastKnown           ResponseStatus = "last-known"
	StatusFailed              ResponseStatus = "failed"
)

// SubscriberIdentifiers are the identities the GMLC resolved for the device.
// Only the fields present in the GMLC response are populated.
type SubscriberIdentifiers struct {
	MSISDN *string `json:"msisdn,omitempty"`
	IMSI   *string `json:"imsi,omitempty"`
	IMEI   *string `json:"imei,omitempty"`
	LMSI   *string `json:"lmsi,omitempty"`
}

// Geolocation is the canonical persisted record produced by mediation.
type Geolocation struct {
	Sid              string          `json:"sid"`
	AccountSid       string          `json:"account_sid"`
	Type             GeolocationType `json:"geolocation_type"`
	DeviceIdentifier string          `json:"device_identifier"`

	// Routing selected at creation; kept so later refreshes target the same
	// network and protocol.
	Domain      *string `json:"domain,omitempty"`       // cs | ps
	CoreNetwork *string `json:"core_network,omitempty"` // gsm | umts | lte | ims

	// Client webhook for deferred location reports.
	StatusCallback *string `json:"status_callback,omitempty"`

	DateCreated  time.Time  `json:"date_created"`
	DateUpdated  time.Time  `json:"date_updated"`
	DateExecuted *time.Time `json:"date_executed,omitempty"`

	ResponseStatus  ResponseStatus        `json:"response_status"`
	ReferenceNumber *int64                `json:"reference_number,omitempty"`
	Identifiers     SubscriberIdentifiers `json:"subscriber_identifiers"`
	Data            GeolocationData       `json:"geolocation_data"`

	LastGeolocationResponse *bool   `json:"last_geolocation_response,omitempty"`
	Cause                   *string `json:"cause,omitempty"`
	APIVersion              string  `json:"api_version"`
}

// GeolocationData is the unified location value object. Fields are sparse:
// only those supplied by the serving network (or a client update) are set.
type GeolocationData struct {
	// Network identity, mutually selected per network type.
	MobileCountryCode *int `json:"mobile_country_code,omitempty"`
	MobileNetworkCode *int `json:"mobile_network_code,omitempty"`
	LocationAreaCode  *int `json:"location_area_code,omitempty"`
	CellID            *int `json:"cell_id,omitempty"`
	ServiceAreaCode   *int `json:"service_area_code,omitempty"`
	ENodeBID          *int `json:"enodeb_id,omitempty"`
	TrackingAreaCode  *int `json:"tracking_area_code,omitempty"`
	RoutingAreaCode   *int `json:"routing_area_code,omitempty"`

	// Serving node (MSC/SGSN/MME/AAA). Name is name@realm for LTE/IMS,
	// address is decimal otherwise.
	NetworkEntityAddress *int64  `json:"network_entity_address,omitempty"`
	NetworkEntityName    *string `json:"network_entity_name,omitempty"`

	// Quality and subscriber state.
	LocationAge        *int    `json:"location_age,omitempty"`
	SubscriberState    *string `json:"subscriber_state,omitempty"`
	NotReachableReason *string `json:"not_reachable_reason,omitempty"`

	// Geometry. Latitude/longitude are strings so client-supplied DMS
	// notation survives verbatim.
	TypeOfShape              *TypeOfShape `json:"type_of_shape,omitempty"`
	DeviceLatitude           *string      `json:"device_latitude,omitempty"`
	DeviceLongitude          *string      `json:"device_longitude,omitempty"`
	Uncertainty              *float64     `json:"uncertainty,omitempty"`
	UncertaintySemiMajorAxis *float64     `json:"uncertainty_semi_major_axis,omitempty"`
	UncertaintySemiMinorAxis *float64     `json:"uncertainty_semi_minor_axis,omitempty"`
	AngleOfMajorAxis         *float64     `json:"angle_of_major_axis,omitempty"`
	Confidence               *int         `json:"confidence,omitempty"`
	DeviceAltitude           *int         `json:"device_altitude,omitempty"`
	UncertaintyAltitude      *float64     `json:"uncertainty_altitude,omitempty"`
	InnerRadius              *int         `json:"inner_radius,omitempty"`
	UncertaintyInnerRadius   *float64     `json:"uncertainty_inner_radius,omitempty"`
	OffsetAngle              *float64     `json:"offset_angle,omitempty"`
	IncludedAngle            *float64     `json:"included_angle,omitempty"`
	Polygon                  []Vertex     `json:"polygon,omitempty"`

	// Velocity, an all-or-nothing group from the GMLC VelocityEstimate.
	DeviceHorizontalSpeed      *float64 `json:"device_horizontal_speed,omitempty"`
	DeviceVerticalSpeed        *float64 `json:"device_vertical_speed,omitempty"`
	UncertaintyHorizontalSpeed *float64 `json:"uncertainty_horizontal_speed,omitempty"`
	UncertaintyVerticalSpeed   *float64 `json:"uncertainty_vertical_speed,omitempty"`
	Bearing                    *float64 `json:"bearing,omitempty"`

	// Notification-only parameters.
	DeferredLocationEventType *string `json:"deferred_location_event_type,omitempty"`
	GeofenceType              *string `json:"geofence_type,omitempty"`
	GeofenceID                *string `json:"geofence_id,omitempty"`
	MotionEventRange          *string `json:"motion_event_range,omitempty"`

	// Enrichment.
	CivicAddress       *string    `json:"civic_address,omitempty"`
	BarometricPressure *float64   `json:"barometric_pressure,omitempty"`
	InternetAddress    *string    `json:"internet_address,omitempty"`
	PhysicalAddress    *string    `json:"physical_address,omitempty"`
	LocationTimestamp  *time.Time `json:"location_timestamp,omitempty"`
}

// Vertex is one polygon corner.
type Vertex struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Failed marks the record as a terminal mediation failure: cause is set and
// all location data is cleared so failure isolates cause.
func (g *Geolocation) Failed(cause string, at time.Time) {
	g.ResponseStatus = StatusFailed
	g.Cause = &cause
	g.Data = GeolocationData{}
	g.DateExecuted = &at
}

// Succeeded records a non-failed mediation outcome and clears any prior cause.
func (g *Geolocation) Succeeded(status ResponseStatus, data GeolocationData, at time.Time) {
	g.ResponseStatus = status
	g.Cause = nil
	g.Data = data
	g.DateExecuted = &at
}

// Amended folds client-pushed data into the record. No GMLC outcome is
// involved, so DateExecuted keeps the timestamp of the last real mediation.
func (g *Geolocation) Amended(status ResponseStatus, data GeolocationData) {
	g.ResponseStatus = status
	g.Cause = nil
	g.Data = data
}

// ResolveIdentifiers fills msisdn/imsi so that exactly one of them matches the
// device identifier when the GMLC did not resolve identities itself. An IMSI
// is 14 or 15 digits; shorter all-digit identifiers are treated as MSISDNs.
func (g *Geolocation) ResolveIdentifiers(fromGMLC SubscriberIdentifiers) {
	g.Identifiers = fromGMLC
	if g.Identifiers.MSISDN != nil || g.Identifiers.IMSI != nil {
		return
	}
	id := strings.TrimSpace(g.DeviceIdentifier)
	if len(id) >= 14 && len(id) <= 15 && isDigits(id) {
		g.Identifiers.IMSI = &id
		return
	}
	g.Identifiers.MSISDN = &id
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
