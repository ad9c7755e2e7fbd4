package domain_test

import (
	"testing"

	"github.com/endikaluq/geolink/internal/core/domain"
)

func strPtr(s string) *string                           { return &s }
func intPtr(i int) *int                                 { return &i }
func floatPtr(f float64) *float64                       { return &f }
func shapePtr(s domain.TypeOfShape) *domain.TypeOfShape { return &s }

func TestParseTypeOfShape(t *testing.T) {
	for _, s := range []string{
		"EllipsoidPoint",
		"EllipsoidPointWithUncertaintyCircle",
		"EllipsoidPointWithUncertaintyEllipse",
		"EllipsoidPointWithAltitudeAndUncertaintyEllipsoid",
		"EllipsoidArc",
		"Polygon",
	} {
		if _, err := domain.ParseTypeOfShape(s); err != nil {
			t.Errorf("ParseTypeOfShape(%q): unexpected error: %v", s, err)
		}
	}
	if _, err := domain.ParseTypeOfShape("Ellipsoid"); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestValidateShape_PointWithUncertainty(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:     shapePtr(domain.EllipsoidPointUncertainty),
		DeviceLatitude:  strPtr("-45.002102851867676"),
		DeviceLongitude: strPtr("110.10070848464966"),
		Uncertainty:     floatPtr(4.641000000000004),
	}
	if err := domain.ValidateShape(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateShape_MissingRequiredField(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:     shapePtr(domain.EllipsoidPointUncertainty),
		DeviceLatitude:  strPtr("43.2"),
		DeviceLongitude: strPtr("-2.9"),
	}
	if err := domain.ValidateShape(d); err == nil {
		t.Error("uncertainty circle without uncertainty should fail")
	}
}

func TestValidateShape_FieldLeak(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:     shapePtr(domain.EllipsoidPoint),
		DeviceLatitude:  strPtr("43.2"),
		DeviceLongitude: strPtr("-2.9"),
		InnerRadius:     intPtr(100),
	}
	if err := domain.ValidateShape(d); err == nil {
		t.Error("arc field on a plain point should fail")
	}
}

func TestValidateShape_Ellipse(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:              shapePtr(domain.EllipsoidPointEllipse),
		DeviceLatitude:           strPtr("43.2"),
		DeviceLongitude:          strPtr("-2.9"),
		UncertaintySemiMajorAxis: floatPtr(20),
		UncertaintySemiMinorAxis: floatPtr(10),
		AngleOfMajorAxis:         floatPtr(30),
		Confidence:               intPtr(95),
	}
	if err := domain.ValidateShape(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Confidence = nil
	if err := domain.ValidateShape(d); err == nil {
		t.Error("ellipse without confidence should fail")
	}
}

func TestValidateShape_Arc(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:            shapePtr(domain.EllipsoidArc),
		DeviceLatitude:         strPtr("43.2"),
		DeviceLongitude:        strPtr("-2.9"),
		InnerRadius:            intPtr(500),
		UncertaintyInnerRadius: floatPtr(25.5),
		OffsetAngle:            floatPtr(10),
		IncludedAngle:          floatPtr(90),
		Confidence:             intPtr(80),
	}
	if err := domain.ValidateShape(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateShape_Polygon(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape: shapePtr(domain.Polygon),
		Polygon: []domain.Vertex{
			{Latitude: "43.1", Longitude: "-2.9"},
			{Latitude: "43.2", Longitude: "-2.8"},
			{Latitude: "43.3", Longitude: "-2.95"},
		},
	}
	if err := domain.ValidateShape(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Polygon = d.Polygon[:2]
	if err := domain.ValidateShape(d); err == nil {
		t.Error("polygon with 2 vertices should fail")
	}
}

func TestValidateShape_PolygonRejectsPointCoordinates(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:    shapePtr(domain.Polygon),
		DeviceLatitude: strPtr("43.2"),
		Polygon: []domain.Vertex{
			{Latitude: "43.1", Longitude: "-2.9"},
			{Latitude: "43.2", Longitude: "-2.8"},
			{Latitude: "43.3", Longitude: "-2.95"},
		},
	}
	if err := domain.ValidateShape(d); err == nil {
		t.Error("device latitude alongside a polygon should fail")
	}
}

func TestValidateShape_RejectsOutOfRangeDecimal(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:     shapePtr(domain.EllipsoidPoint),
		DeviceLatitude:  strPtr("91.0"),
		DeviceLongitude: strPtr("10.0"),
	}
	if err := domain.ValidateShape(d); err == nil {
		t.Error("latitude above 90 should fail")
	}
}

func TestCheckShapeFields_AllowsDMSVerbatim(t *testing.T) {
	d := &domain.GeolocationData{
		TypeOfShape:     shapePtr(domain.EllipsoidPoint),
		DeviceLatitude:  strPtr(`43°38'19.39''N`),
		DeviceLongitude: strPtr(`2°56'7.2''W`),
	}
	if err := domain.CheckShapeFields(d); err != nil {
		t.Fatalf("DMS coordinates must pass the field check: %v", err)
	}
	// The full validation still insists on decimal degrees.
	if err := domain.ValidateShape(d); err == nil {
		t.Error("DMS coordinates should not pass decimal validation")
	}
}

func TestResolveIdentifiers(t *testing.T) {
	g := domain.Geolocation{DeviceIdentifier: "34600000001"}
	g.ResolveIdentifiers(domain.SubscriberIdentifiers{})
	if g.Identifiers.MSISDN == nil || *g.Identifiers.MSISDN != "34600000001" {
		t.Error("11-digit identifier should resolve as msisdn")
	}

	g = domain.Geolocation{DeviceIdentifier: "214070000000001"}
	g.ResolveIdentifiers(domain.SubscriberIdentifiers{})
	if g.Identifiers.IMSI == nil || *g.Identifiers.IMSI != "214070000000001" {
		t.Error("15-digit identifier should resolve as imsi")
	}

	msisdn := "34699999999"
	g = domain.Geolocation{DeviceIdentifier: "214070000000001"}
	g.ResolveIdentifiers(domain.SubscriberIdentifiers{MSISDN: &msisdn})
	if g.Identifiers.IMSI != nil {
		t.Error("GMLC-resolved identities must not be overwritten")
	}
}

func TestFailedClearsData(t *testing.T) {
	g := domain.Geolocation{
		ResponseStatus: domain.StatusSuccessful,
		Data:           domain.GeolocationData{CellID: intPtr(1234)},
	}
	g.Failed("GMLC connection failure", g.DateCreated)
	if g.ResponseStatus != domain.StatusFailed {
		t.Errorf("status = %s, want failed", g.ResponseStatus)
	}
	if g.Cause == nil || *g.Cause != "GMLC connection failure" {
		t.Error("cause not recorded")
	}
	if g.Data.CellID != nil {
		t.Error("failure must clear location data")
	}
}
