package usecases

import (
	"strconv"
	"strings"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// Deferred location event types as defined by MAP/Diameter LCS.
const (
	eventAvailable    = "available"
	eventEnteringArea = "entering-area"
	eventLeavingArea  = "leaving-area"
	eventInsideArea   = "inside-area"
	eventPeriodicLDR  = "periodic-ldr"
	eventMotionEvent  = "motion-event"
	eventLDRActivated = "ldr-activated"
	eventMaxInterval  = "maximum-interval-expiration"
)

// geofenceIDWidth maps each geofence (area) type to the digit width its
// identifier must have on the wire.
var geofenceIDWidth = map[string]int{
	"countryCode":    3,
	"plmnId":         6,
	"locationAreaId": 5,
	"routingAreaId":  8,
	"cellGlobalId":   15,
	"utranCellId":    9,
	"trackingAreaId": 5,
	"eUtranCellId":   9,
}

var areaEventTypes = map[string]bool{
	eventEnteringArea: true,
	eventLeavingArea:  true,
	eventInsideArea:   true,
}

var deferredEventTypes = map[string]bool{
	eventAvailable:    true,
	eventEnteringArea: true,
	eventLeavingArea:  true,
	eventInsideArea:   true,
	eventPeriodicLDR:  true,
	eventMotionEvent:  true,
	eventLDRActivated: true,
	eventMaxInterval:  true,
}

// ValidateCreate applies the creation rules matrix for the given geolocation
// type. It rejects before any GMLC call is attempted.
func ValidateCreate(gType domain.GeolocationType, req *GeolocationRequest) *domain.ValidationError {
	if req.DeviceIdentifier == nil || strings.TrimSpace(*req.DeviceIdentifier) == "" {
		return domain.NewValidationError("DeviceIdentifier", "is required")
	}
	if err := validateCommon(req); err != nil {
		return err
	}

	switch gType {
	case domain.ImmediateType:
		return validateImmediate(req)
	case domain.NotificationType:
		return validateNotification(req)
	}
	return domain.NewValidationError("GeolocationType", "%q is not a supported type", gType)
}

// ValidateUpdate applies the update rules matrix. Identity and type fields
// are immutable and checked by the service; this validates the mutable ones.
func ValidateUpdate(gType domain.GeolocationType, req *GeolocationRequest) *domain.ValidationError {
	if req.DeviceIdentifier != nil {
		return domain.NewValidationError("DeviceIdentifier", "is immutable")
	}
	if err := validateCommon(req); err != nil {
		return err
	}
	if req.ResponseStatus != nil {
		switch domain.ResponseStatus(*req.ResponseStatus) {
		case domain.StatusSuccessful, domain.StatusPartiallySuccessful,
			domain.StatusLastKnown, domain.StatusFailed:
		default:
			return domain.NewValidationError("ResponseStatus", "%q is not a valid response status", *req.ResponseStatus)
		}
	}
	if req.LastGeolocationResponse != nil {
		if _, err := strconv.ParseBool(*req.LastGeolocationResponse); err != nil {
			return domain.NewValidationError("LastGeolocationResponse", "must be true or false")
		}
	}
	if gType == domain.ImmediateType {
		if err := rejectDeferredParams(req); err != nil {
			return err
		}
	} else if err := validateDeferredGroup(req, false); err != nil {
		return err
	}
	return nil
}

// validateCommon covers the parameters legal on both creation and update.
func validateCommon(req *GeolocationRequest) *domain.ValidationError {
	if req.Domain != nil {
		switch *req.Domain {
		case "cs", "ps":
		default:
			return domain.NewValidationError("Domain", "%q must be cs or ps", *req.Domain)
		}
	}
	if req.CoreNetwork != nil {
		switch *req.CoreNetwork {
		case "gsm", "umts", "lte", "ims":
		default:
			return domain.NewValidationError("CoreNetwork", "%q must be one of gsm, umts, lte, ims", *req.CoreNetwork)
		}
	}
	if req.PsiService != nil && *req.PsiService != "true" && *req.PsiService != "false" {
		return domain.NewValidationError("PsiService", "must be true or false")
	}
	if req.Priority != nil {
		switch *req.Priority {
		case "normal", "high":
		default:
			return domain.NewValidationError("Priority", "%q must be normal or high", *req.Priority)
		}
	}
	if req.ResponseTime != nil {
		switch *req.ResponseTime {
		case "low", "tolerant":
		default:
			return domain.NewValidationError("ResponseTime", "%q must be low or tolerant", *req.ResponseTime)
		}
	}
	if req.LocationEstimateType != nil {
		switch *req.LocationEstimateType {
		case "lastKnown", "initial", "current", "activateDeferred", "cancelDeferred":
		default:
			return domain.NewValidationError("LocationEstimateType", "%q is not a valid location estimate type", *req.LocationEstimateType)
		}
	}
	if req.VerticalCoordinateRequest != nil &&
		*req.VerticalCoordinateRequest != "true" && *req.VerticalCoordinateRequest != "false" {
		return domain.NewValidationError("VerticalCoordinateRequest", "must be true or false")
	}
	for _, p := range []struct {
		name string
		raw  *string
	}{
		{"HorizontalAccuracy", req.HorizontalAccuracy},
		{"VerticalAccuracy", req.VerticalAccuracy},
	} {
		if p.raw == nil {
			continue
		}
		v, err := strconv.Atoi(*p.raw)
		if err != nil || v < 0 {
			return domain.NewValidationError(p.name, "%q must be a non-negative integer", *p.raw)
		}
	}
	if req.StatusCallback != nil && !strings.HasPrefix(*req.StatusCallback, "http://") &&
		!strings.HasPrefix(*req.StatusCallback, "https://") {
		return domain.NewValidationError("StatusCallback", "must be an http or https URL")
	}
	return nil
}

func validateImmediate(req *GeolocationRequest) *domain.ValidationError {
	return rejectDeferredParams(req)
}

// rejectDeferredParams refuses deferred-location parameters on an
// Immediate-type record.
func rejectDeferredParams(req *GeolocationRequest) *domain.ValidationError {
	for _, p := range []struct {
		name string
		raw  *string
	}{
		{"DeferredLocationEventType", req.DeferredLocationEventType},
		{"GeofenceType", req.GeofenceType},
		{"GeofenceId", req.GeofenceID},
		{"GeofenceOccurrenceInfo", req.GeofenceOccurrenceInfo},
		{"GeofenceIntervalTime", req.GeofenceIntervalTime},
		{"MotionEventRange", req.MotionEventRange},
		{"EventReportingAmount", req.EventReportingAmount},
		{"EventReportingInterval", req.EventReportingInterval},
	} {
		if p.raw != nil {
			return domain.NewValidationError(p.name, "not allowed for Immediate geolocations")
		}
	}
	return nil
}

func validateNotification(req *GeolocationRequest) *domain.ValidationError {
	if req.StatusCallback == nil {
		return domain.NewValidationError("StatusCallback", "is required for Notification geolocations")
	}
	return validateDeferredGroup(req, true)
}

// validateDeferredGroup enforces the deferred-event parameter groups. On
// creation the event type itself is mandatory; on update it only constrains
// the groups when supplied.
func validateDeferredGroup(req *GeolocationRequest, create bool) *domain.ValidationError {
	if req.DeferredLocationEventType == nil {
		if create {
			return domain.NewValidationError("DeferredLocationEventType", "is required for Notification geolocations")
		}
		return nil
	}
	eventType := *req.DeferredLocationEventType
	if !deferredEventTypes[eventType] {
		return domain.NewValidationError("DeferredLocationEventType", "%q is not a valid deferred location event type", eventType)
	}

	switch {
	case areaEventTypes[eventType]:
		if req.MotionEventRange != nil {
			return domain.NewValidationError("MotionEventRange", "not allowed for area event type %s", eventType)
		}
		if req.GeofenceType == nil || req.GeofenceID == nil {
			return domain.NewValidationError("GeofenceType", "GeofenceType and GeofenceId are required for area event type %s", eventType)
		}
		width, ok := geofenceIDWidth[*req.GeofenceType]
		if !ok {
			return domain.NewValidationError("GeofenceType", "%q is not a valid geofence area type", *req.GeofenceType)
		}
		if !isDigits(*req.GeofenceID) || len(*req.GeofenceID) != width {
			return domain.NewValidationError("GeofenceId", "%q does not match geofence type %s (%d digits expected)",
				*req.GeofenceID, *req.GeofenceType, width)
		}
		if req.GeofenceOccurrenceInfo != nil {
			switch *req.GeofenceOccurrenceInfo {
			case "once", "multiple":
			default:
				return domain.NewValidationError("GeofenceOccurrenceInfo", "must be once or multiple")
			}
		}
		if req.GeofenceIntervalTime != nil {
			v, err := strconv.Atoi(*req.GeofenceIntervalTime)
			if err != nil || v < 0 || v > 32767 {
				return domain.NewValidationError("GeofenceIntervalTime", "%q must be an integer between 0 and 32767 seconds", *req.GeofenceIntervalTime)
			}
		}

	case eventType == eventMotionEvent:
		if err := rejectGeofenceParams(req, eventType); err != nil {
			return err
		}
		if req.MotionEventRange == nil {
			return domain.NewValidationError("MotionEventRange", "is required for motion-event")
		}
		if v, err := strconv.Atoi(*req.MotionEventRange); err != nil || v <= 0 {
			return domain.NewValidationError("MotionEventRange", "%q must be a positive integer in meters", *req.MotionEventRange)
		}

	default:
		if err := rejectGeofenceParams(req, eventType); err != nil {
			return err
		}
		if req.MotionEventRange != nil {
			return domain.NewValidationError("MotionEventRange", "not allowed for event type %s", eventType)
		}
	}

	for _, p := range []struct {
		name string
		raw  *string
	}{
		{"EventReportingAmount", req.EventReportingAmount},
		{"EventReportingInterval", req.EventReportingInterval},
	} {
		if p.raw == nil {
			continue
		}
		v, err := strconv.Atoi(*p.raw)
		if err != nil || v <= 0 || v > 8639999 {
			return domain.NewValidationError(p.name, "%q must be an integer between 1 and 8639999", *p.raw)
		}
	}
	return nil
}

func rejectGeofenceParams(req *GeolocationRequest, eventType string) *domain.ValidationError {
	for _, p := range []struct {
		name string
		raw  *string
	}{
		{"GeofenceType", req.GeofenceType},
		{"GeofenceId", req.GeofenceID},
		{"GeofenceOccurrenceInfo", req.GeofenceOccurrenceInfo},
		{"GeofenceIntervalTime", req.GeofenceIntervalTime},
	} {
		if p.raw != nil {
			return domain.NewValidationError(p.name, "not allowed for event type %s", eventType)
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
