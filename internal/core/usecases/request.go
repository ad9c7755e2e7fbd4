package usecases

import (
	"strconv"
	"time"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// GeolocationRequest carries the raw request parameters of a create or
// update call. Everything arrives as optional strings, exactly as the HTTP
// layer received them; typed conversion happens during validation/merge.
type GeolocationRequest struct {
	// Creation parameters.
	DeviceIdentifier          *string
	Domain                    *string // cs | ps
	CoreNetwork               *string // gsm | umts | lte | ims
	StatusCallback            *string
	Priority                  *string
	HorizontalAccuracy        *string
	VerticalAccuracy          *string
	VerticalCoordinateRequest *string
	ResponseTime              *string
	LocationEstimateType      *string
	PsiService                *string

	// Deferred location parameters (Notification type only).
	DeferredLocationEventType *string
	GeofenceType              *string
	GeofenceID                *string
	GeofenceOccurrenceInfo    *string
	GeofenceIntervalTime      *string
	MotionEventRange          *string
	EventReportingAmount      *string
	EventReportingInterval    *string

	// Update parameters: outcome fields pushed by the client on behalf of
	// the GMLC (deferred callbacks) or corrections to a stored record.
	ResponseStatus          *string
	CauseText               *string
	LastGeolocationResponse *string

	MobileCountryCode    *string
	MobileNetworkCode    *string
	LocationAreaCode     *string
	CellID               *string
	ServiceAreaCode      *string
	ENodeBID             *string
	TrackingAreaCode     *string
	RoutingAreaCode      *string
	NetworkEntityAddress *string
	NetworkEntityName    *string
	LocationAge          *string
	SubscriberState      *string
	NotReachableReason   *string

	TypeOfShape              *string
	DeviceLatitude           *string
	DeviceLongitude          *string
	Uncertainty              *string
	UncertaintySemiMajorAxis *string
	UncertaintySemiMinorAxis *string
	AngleOfMajorAxis         *string
	Confidence               *string
	DeviceAltitude           *string
	UncertaintyAltitude      *string
	InnerRadius              *string
	UncertaintyInnerRadius   *string
	OffsetAngle              *string
	IncludedAngle            *string

	DeviceHorizontalSpeed      *string
	DeviceVerticalSpeed        *string
	UncertaintyHorizontalSpeed *string
	UncertaintyVerticalSpeed   *string
	Bearing                    *string

	CivicAddress       *string
	BarometricPressure *string
	InternetAddress    *string
	PhysicalAddress    *string
	LocationTimestamp  *string
}

// hasLocationData reports whether the request pushes any location-data
// parameter. Such updates are client-side merges and do not trigger a GMLC
// round-trip; a bare update is a refresh and does.
func (r *GeolocationRequest) hasLocationData() bool {
	ptrs := []*string{
		r.MobileCountryCode, r.MobileNetworkCode, r.LocationAreaCode, r.CellID,
		r.ServiceAreaCode, r.ENodeBID, r.TrackingAreaCode, r.RoutingAreaCode,
		r.NetworkEntityAddress, r.NetworkEntityName, r.LocationAge,
		r.SubscriberState, r.NotReachableReason,
		r.TypeOfShape, r.DeviceLatitude, r.DeviceLongitude, r.Uncertainty,
		r.UncertaintySemiMajorAxis, r.UncertaintySemiMinorAxis, r.AngleOfMajorAxis,
		r.Confidence, r.DeviceAltitude, r.UncertaintyAltitude, r.InnerRadius,
		r.UncertaintyInnerRadius, r.OffsetAngle, r.IncludedAngle,
		r.DeviceHorizontalSpeed, r.DeviceVerticalSpeed, r.UncertaintyHorizontalSpeed,
		r.UncertaintyVerticalSpeed, r.Bearing,
		r.CivicAddress, r.BarometricPressure, r.InternetAddress, r.PhysicalAddress,
		r.LocationTimestamp, r.ResponseStatus, r.CauseText,
		r.DeferredLocationEventType, r.GeofenceType, r.GeofenceID, r.MotionEventRange,
	}
	for _, p := range ptrs {
		if p != nil {
			return true
		}
	}
	return false
}

// mergeInto applies the supplied location-data parameters on top of data.
// With replace set, data starts empty (PUT full-replace semantics); omitted
// fields are therefore cleared. Numeric conversion failures reject the
// request as a whole.
func (r *GeolocationRequest) mergeInto(data *domain.GeolocationData, replace bool) *domain.ValidationError {
	if replace {
		*data = domain.GeolocationData{}
	}

	type intField struct {
		name  string
		raw   *string
		field **int
	}
	for _, f := range []intField{
		{"MobileCountryCode", r.MobileCountryCode, &data.MobileCountryCode},
		{"MobileNetworkCode", r.MobileNetworkCode, &data.MobileNetworkCode},
		{"LocationAreaCode", r.LocationAreaCode, &data.LocationAreaCode},
		{"CellId", r.CellID, &data.CellID},
		{"ServiceAreaCode", r.ServiceAreaCode, &data.ServiceAreaCode},
		{"EnodebId", r.ENodeBID, &data.ENodeBID},
		{"TrackingAreaCode", r.TrackingAreaCode, &data.TrackingAreaCode},
		{"RoutingAreaCode", r.RoutingAreaCode, &data.RoutingAreaCode},
		{"LocationAge", r.LocationAge, &data.LocationAge},
		{"Confidence", r.Confidence, &data.Confidence},
		{"DeviceAltitude", r.DeviceAltitude, &data.DeviceAltitude},
		{"InnerRadius", r.InnerRadius, &data.InnerRadius},
	} {
		if f.raw == nil {
			continue
		}
		v, err := strconv.Atoi(*f.raw)
		if err != nil {
			return domain.NewValidationError(f.name, "%q is not a number", *f.raw)
		}
		*f.field = &v
	}

	type floatField struct {
		name  string
		raw   *string
		field **float64
	}
	for _, f := range []floatField{
		{"Uncertainty", r.Uncertainty, &data.Uncertainty},
		{"UncertaintySemiMajorAxis", r.UncertaintySemiMajorAxis, &data.UncertaintySemiMajorAxis},
		{"UncertaintySemiMinorAxis", r.UncertaintySemiMinorAxis, &data.UncertaintySemiMinorAxis},
		{"AngleOfMajorAxis", r.AngleOfMajorAxis, &data.AngleOfMajorAxis},
		{"UncertaintyAltitude", r.UncertaintyAltitude, &data.UncertaintyAltitude},
		{"UncertaintyInnerRadius", r.UncertaintyInnerRadius, &data.UncertaintyInnerRadius},
		{"OffsetAngle", r.OffsetAngle, &data.OffsetAngle},
		{"IncludedAngle", r.IncludedAngle, &data.IncludedAngle},
		{"DeviceHorizontalSpeed", r.DeviceHorizontalSpeed, &data.DeviceHorizontalSpeed},
		{"DeviceVerticalSpeed", r.DeviceVerticalSpeed, &data.DeviceVerticalSpeed},
		{"UncertaintyHorizontalSpeed", r.UncertaintyHorizontalSpeed, &data.UncertaintyHorizontalSpeed},
		{"UncertaintyVerticalSpeed", r.UncertaintyVerticalSpeed, &data.UncertaintyVerticalSpeed},
		{"Bearing", r.Bearing, &data.Bearing},
		{"BarometricPressure", r.BarometricPressure, &data.BarometricPressure},
	} {
		if f.raw == nil {
			continue
		}
		v, err := strconv.ParseFloat(*f.raw, 64)
		if err != nil {
			return domain.NewValidationError(f.name, "%q is not a number", *f.raw)
		}
		*f.field = &v
	}

	if r.NetworkEntityAddress != nil {
		v, err := strconv.ParseInt(*r.NetworkEntityAddress, 10, 64)
		if err != nil {
			return domain.NewValidationError("NetworkEntityAddress", "%q is not a number", *r.NetworkEntityAddress)
		}
		data.NetworkEntityAddress = &v
	}

	if r.TypeOfShape != nil {
		shape, err := domain.ParseTypeOfShape(*r.TypeOfShape)
		if err != nil {
			return domain.NewValidationError("TypeOfShape", "%v", err)
		}
		data.TypeOfShape = &shape
	}

	if r.LocationTimestamp != nil {
		ts, err := parseTimestamp(*r.LocationTimestamp)
		if err != nil {
			return domain.NewValidationError("LocationTimestamp", "%q is not a recognized timestamp", *r.LocationTimestamp)
		}
		data.LocationTimestamp = &ts
	}

	// Verbatim string fields; DMS coordinates land here untouched.
	copyString(r.DeviceLatitude, &data.DeviceLatitude)
	copyString(r.DeviceLongitude, &data.DeviceLongitude)
	copyString(r.NetworkEntityName, &data.NetworkEntityName)
	copyString(r.SubscriberState, &data.SubscriberState)
	copyString(r.NotReachableReason, &data.NotReachableReason)
	copyString(r.CivicAddress, &data.CivicAddress)
	copyString(r.InternetAddress, &data.InternetAddress)
	copyString(r.PhysicalAddress, &data.PhysicalAddress)
	copyString(r.DeferredLocationEventType, &data.DeferredLocationEventType)
	copyString(r.GeofenceType, &data.GeofenceType)
	copyString(r.GeofenceID, &data.GeofenceID)
	copyString(r.MotionEventRange, &data.MotionEventRange)

	return nil
}

func copyString(src *string, dst **string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.RFC1123, time.RFC1123Z} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: s}
}
