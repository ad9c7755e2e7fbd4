package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/endikaluq/geolink/internal/core/usecases"
)

// parseGeolocationParams reads the request body into a GeolocationRequest.
// Form-encoded and JSON bodies are accepted; parameter names follow the
// public API convention (CamelCase). Unknown parameters are rejected so
// client typos surface as 400s instead of silently ignored fields.
func parseGeolocationParams(c *fiber.Ctx) (*usecases.GeolocationRequest, error) {
	req := &usecases.GeolocationRequest{}

	ct := string(c.Request().Header.ContentType())
	if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		var raw map[string]any
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for key, value := range raw {
			if !assignParam(req, key, stringify(value)) {
				return nil, fmt.Errorf("unknown parameter %q", key)
			}
		}
		return req, nil
	}

	var badKey string
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		if badKey != "" {
			return
		}
		if !assignParam(req, string(key), string(value)) {
			badKey = string(key)
		}
	})
	if badKey != "" {
		return nil, fmt.Errorf("unknown parameter %q", badKey)
	}
	return req, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers arrive as float64; keep integers undecorated.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// assignParam maps one public parameter name onto the request struct.
func assignParam(req *usecases.GeolocationRequest, key, value string) bool {
	fields := map[string]**string{
		"DeviceIdentifier":          &req.DeviceIdentifier,
		"Domain":                    &req.Domain,
		"CoreNetwork":               &req.CoreNetwork,
		"StatusCallback":            &req.StatusCallback,
		"Priority":                  &req.Priority,
		"HorizontalAccuracy":        &req.HorizontalAccuracy,
		"VerticalAccuracy":          &req.VerticalAccuracy,
		"VerticalCoordinateRequest": &req.VerticalCoordinateRequest,
		"ResponseTime":              &req.ResponseTime,
		"LocationEstimateType":      &req.LocationEstimateType,
		"PsiService":                &req.PsiService,

		"DeferredLocationEventType": &req.DeferredLocationEventType,
		"GeofenceType":              &req.GeofenceType,
		"GeofenceId":                &req.GeofenceID,
		"GeofenceOccurrenceInfo":    &req.GeofenceOccurrenceInfo,
		"GeofenceIntervalTime":      &req.GeofenceIntervalTime,
		"MotionEventRange":          &req.MotionEventRange,
		"EventReportingAmount":      &req.EventReportingAmount,
		"EventReportingInterval":    &req.EventReportingInterval,

		"ResponseStatus":          &req.ResponseStatus,
		"Cause":                   &req.CauseText,
		"LastGeolocationResponse": &req.LastGeolocationResponse,

		"MobileCountryCode":    &req.MobileCountryCode,
		"MobileNetworkCode":    &req.MobileNetworkCode,
		"LocationAreaCode":     &req.LocationAreaCode,
		"CellId":               &req.CellID,
		"ServiceAreaCode":      &req.ServiceAreaCode,
		"EnodebId":             &req.ENodeBID,
		"TrackingAreaCode":     &req.TrackingAreaCode,
		"RoutingAreaCode":      &req.RoutingAreaCode,
		"NetworkEntityAddress": &req.NetworkEntityAddress,
		"NetworkEntityName":    &req.NetworkEntityName,
		"LocationAge":          &req.LocationAge,
		"SubscriberState":      &req.SubscriberState,
		"NotReachableReason":   &req.NotReachableReason,

		"TypeOfShape":              &req.TypeOfShape,
		"DeviceLatitude":           &req.DeviceLatitude,
		"DeviceLongitude":          &req.DeviceLongitude,
		"Uncertainty":              &req.Uncertainty,
		"UncertaintySemiMajorAxis": &req.UncertaintySemiMajorAxis,
		"UncertaintySemiMinorAxis": &req.UncertaintySemiMinorAxis,
		"AngleOfMajorAxis":         &req.AngleOfMajorAxis,
		"Confidence":               &req.Confidence,
		"DeviceAltitude":           &req.DeviceAltitude,
		"UncertaintyAltitude":      &req.UncertaintyAltitude,
		"InnerRadius":              &req.InnerRadius,
		"UncertaintyInnerRadius":   &req.UncertaintyInnerRadius,
		"OffsetAngle":              &req.OffsetAngle,
		"IncludedAngle":            &req.IncludedAngle,

		"DeviceHorizontalSpeed":      &req.DeviceHorizontalSpeed,
		"DeviceVerticalSpeed":        &req.DeviceVerticalSpeed,
		"UncertaintyHorizontalSpeed": &req.UncertaintyHorizontalSpeed,
		"UncertaintyVerticalSpeed":   &req.UncertaintyVerticalSpeed,
		"Bearing":                    &req.Bearing,

		"CivicAddress":       &req.CivicAddress,
		"BarometricPressure": &req.BarometricPressure,
		"InternetAddress":    &req.InternetAddress,
		"PhysicalAddress":    &req.PhysicalAddress,
		"LocationTimestamp":  &req.LocationTimestamp,
	}

	field, ok := fields[key]
	if !ok {
		return false
	}
	v := value
	*field = &v
	return true
}
