package usecases_test

import (
	"strings"
	"testing"

	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/core/usecases"
)

func sp(s string) *string { return &s }

func validImmediate() *usecases.GeolocationRequest {
	return &usecases.GeolocationRequest{DeviceIdentifier: sp("573195890032")}
}

func validNotification() *usecases.GeolocationRequest {
	return &usecases.GeolocationRequest{
		DeviceIdentifier:          sp("573195890032"),
		StatusCallback:            sp("https://example.com/reports"),
		DeferredLocationEventType: sp("available"),
	}
}

func TestValidateCreate_DeviceIdentifierRequired(t *testing.T) {
	err := usecases.ValidateCreate(domain.ImmediateType, &usecases.GeolocationRequest{})
	if err == nil || err.Param != "DeviceIdentifier" {
		t.Fatalf("expected DeviceIdentifier error, got %v", err)
	}
	err = usecases.ValidateCreate(domain.ImmediateType, &usecases.GeolocationRequest{DeviceIdentifier: sp("  ")})
	if err == nil {
		t.Fatal("blank device identifier should fail")
	}
}

func TestValidateCreate_CommonEnums(t *testing.T) {
	cases := []struct {
		param  string
		mutate func(*usecases.GeolocationRequest)
	}{
		{"Domain", func(r *usecases.GeolocationRequest) { r.Domain = sp("circuit") }},
		{"CoreNetwork", func(r *usecases.GeolocationRequest) { r.CoreNetwork = sp("5g") }},
		{"PsiService", func(r *usecases.GeolocationRequest) { r.PsiService = sp("yes") }},
		{"Priority", func(r *usecases.GeolocationRequest) { r.Priority = sp("urgent") }},
		{"ResponseTime", func(r *usecases.GeolocationRequest) { r.ResponseTime = sp("fast") }},
		{"LocationEstimateType", func(r *usecases.GeolocationRequest) { r.LocationEstimateType = sp("guess") }},
		{"VerticalCoordinateRequest", func(r *usecases.GeolocationRequest) { r.VerticalCoordinateRequest = sp("maybe") }},
		{"HorizontalAccuracy", func(r *usecases.GeolocationRequest) { r.HorizontalAccuracy = sp("-5") }},
		{"VerticalAccuracy", func(r *usecases.GeolocationRequest) { r.VerticalAccuracy = sp("tall") }},
		{"StatusCallback", func(r *usecases.GeolocationRequest) { r.StatusCallback = sp("ftp://example.com") }},
	}
	for _, tc := range cases {
		req := validImmediate()
		tc.mutate(req)
		err := usecases.ValidateCreate(domain.ImmediateType, req)
		if err == nil || err.Param != tc.param {
			t.Errorf("%s: expected validation error on that param, got %v", tc.param, err)
		}
	}
}

func TestValidateCreate_ImmediateAcceptsFullOptions(t *testing.T) {
	req := &usecases.GeolocationRequest{
		DeviceIdentifier:          sp("214070000000001"),
		Domain:                    sp("ps"),
		CoreNetwork:               sp("lte"),
		Priority:                  sp("high"),
		HorizontalAccuracy:        sp("100"),
		VerticalAccuracy:          sp("50"),
		VerticalCoordinateRequest: sp("true"),
		ResponseTime:              sp("low"),
		LocationEstimateType:      sp("current"),
		StatusCallback:            sp("https://example.com/cb"),
	}
	if err := usecases.ValidateCreate(domain.ImmediateType, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreate_ImmediateRejectsDeferredParams(t *testing.T) {
	req := validImmediate()
	req.DeferredLocationEventType = sp("available")
	if err := usecases.ValidateCreate(domain.ImmediateType, req); err == nil {
		t.Error("deferred event type on Immediate should fail")
	}

	req = validImmediate()
	req.EventReportingAmount = sp("5")
	if err := usecases.ValidateCreate(domain.ImmediateType, req); err == nil {
		t.Error("reporting amount on Immediate should fail")
	}
}

func TestValidateCreate_NotificationRequiresCallbackAndEvent(t *testing.T) {
	req := &usecases.GeolocationRequest{DeviceIdentifier: sp("573195890032")}
	err := usecases.ValidateCreate(domain.NotificationType, req)
	if err == nil || err.Param != "StatusCallback" {
		t.Fatalf("expected StatusCallback error, got %v", err)
	}

	req.StatusCallback = sp("https://example.com/cb")
	err = usecases.ValidateCreate(domain.NotificationType, req)
	if err == nil || err.Param != "DeferredLocationEventType" {
		t.Fatalf("expected DeferredLocationEventType error, got %v", err)
	}
}

func TestValidateCreate_GeofenceWidths(t *testing.T) {
	cases := []struct {
		geofenceType string
		goodID       string
	}{
		{"countryCode", "732"},
		{"plmnId", "214070"},
		{"locationAreaId", "30000"},
		{"routingAreaId", "30000001"},
		{"cellGlobalId", "214073000020042"},
		{"utranCellId", "200420042"},
		{"trackingAreaId", "30210"},
		{"eUtranCellId", "763580188"},
	}
	for _, tc := range cases {
		req := validNotification()
		req.DeferredLocationEventType = sp("entering-area")
		req.GeofenceType = sp(tc.geofenceType)
		req.GeofenceID = sp(tc.goodID)
		if err := usecases.ValidateCreate(domain.NotificationType, req); err != nil {
			t.Errorf("%s with id %q: unexpected error: %v", tc.geofenceType, tc.goodID, err)
		}

		req.GeofenceID = sp(tc.goodID + "9")
		if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
			t.Errorf("%s: oversized id should fail", tc.geofenceType)
		}
	}
}

func TestValidateCreate_AreaEventRules(t *testing.T) {
	req := validNotification()
	req.DeferredLocationEventType = sp("leaving-area")
	err := usecases.ValidateCreate(domain.NotificationType, req)
	if err == nil {
		t.Fatal("area event without geofence params should fail")
	}

	req.GeofenceType = sp("plmnId")
	req.GeofenceID = sp("21407A")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("non-digit geofence id should fail")
	}

	req.GeofenceID = sp("214070")
	req.GeofenceOccurrenceInfo = sp("always")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("bad occurrence info should fail")
	}

	req.GeofenceOccurrenceInfo = sp("multiple")
	req.GeofenceIntervalTime = sp("40000")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("interval above 32767 should fail")
	}

	req.GeofenceIntervalTime = sp("600")
	req.MotionEventRange = sp("1000")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("motion range on an area event should fail")
	}
}

func TestValidateCreate_MotionEventRules(t *testing.T) {
	req := validNotification()
	req.DeferredLocationEventType = sp("motion-event")
	err := usecases.ValidateCreate(domain.NotificationType, req)
	if err == nil || err.Param != "MotionEventRange" {
		t.Fatalf("expected MotionEventRange error, got %v", err)
	}

	req.MotionEventRange = sp("0")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("zero motion range should fail")
	}

	req.MotionEventRange = sp("500")
	req.GeofenceType = sp("plmnId")
	req.GeofenceID = sp("214070")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("geofence params on motion-event should fail")
	}

	req.GeofenceType = nil
	req.GeofenceID = nil
	if err := usecases.ValidateCreate(domain.NotificationType, req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCreate_ReportingBounds(t *testing.T) {
	req := validNotification()
	req.DeferredLocationEventType = sp("periodic-ldr")
	req.EventReportingAmount = sp("10")
	req.EventReportingInterval = sp("600")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.EventReportingInterval = sp("8640000")
	if err := usecases.ValidateCreate(domain.NotificationType, req); err == nil {
		t.Error("interval above 8639999 should fail")
	}
}

func TestValidateUpdate_DeviceIdentifierImmutable(t *testing.T) {
	err := usecases.ValidateUpdate(domain.ImmediateType, &usecases.GeolocationRequest{DeviceIdentifier: sp("123")})
	if err == nil || !strings.Contains(err.Error(), "immutable") {
		t.Fatalf("expected immutability error, got %v", err)
	}
}

func TestValidateUpdate_ResponseStatusAndFlag(t *testing.T) {
	if err := usecases.ValidateUpdate(domain.ImmediateType, &usecases.GeolocationRequest{ResponseStatus: sp("pending")}); err == nil {
		t.Error("unknown response status should fail")
	}
	if err := usecases.ValidateUpdate(domain.ImmediateType, &usecases.GeolocationRequest{ResponseStatus: sp("last-known")}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := usecases.ValidateUpdate(domain.ImmediateType, &usecases.GeolocationRequest{LastGeolocationResponse: sp("sometimes")}); err == nil {
		t.Error("non-boolean flag should fail")
	}
}

func TestValidateUpdate_CoordinatesNotRejected(t *testing.T) {
	// Coordinate parsing is settled while merging; a malformed value still
	// passes request validation and fails the record instead.
	if err := usecases.ValidateUpdate(domain.ImmediateType, &usecases.GeolocationRequest{DeviceLatitude: sp("North 72.908134")}); err != nil {
		t.Errorf("malformed coordinate must not reject the request: %v", err)
	}
}

func TestValidateUpdate_DeferredGroupOptionalOnUpdate(t *testing.T) {
	// A Notification update without an event type is legal.
	if err := usecases.ValidateUpdate(domain.NotificationType, &usecases.GeolocationRequest{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// But one with an event type re-enters the full group check.
	req := &usecases.GeolocationRequest{DeferredLocationEventType: sp("entering-area")}
	if err := usecases.ValidateUpdate(domain.NotificationType, req); err == nil {
		t.Error("area event on update still needs geofence params")
	}
	// Immediate records never accept deferred parameters.
	req = &usecases.GeolocationRequest{MotionEventRange: sp("100")}
	if err := usecases.ValidateUpdate(domain.ImmediateType, req); err == nil {
		t.Error("deferred param on Immediate update should fail")
	}
}
