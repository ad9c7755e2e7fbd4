package domain

import (
	"fmt"
	"strconv"
)

// TypeOfShape discriminates the closed set of geometry variants a GMLC can
// report (3GPP 23.032 universal geographical area descriptions).
type TypeOfShape string

const (
	EllipsoidPoint            TypeOfShape = "EllipsoidPoint"
	EllipsoidPointUncertainty TypeOfShape = "EllipsoidPointWithUncertaintyCircle"
	EllipsoidPointEllipse     TypeOfShape = "EllipsoidPointWithUncertaintyEllipse"
	EllipsoidPointAltitude    TypeOfShape = "EllipsoidPointWithAltitudeAndUncertaintyEllipsoid"
	EllipsoidArc              TypeOfShape = "EllipsoidArc"
	Polygon                   TypeOfShape = "Polygon"
)

// ParseTypeOfShape maps a GMLC shape string to its variant. Unknown shape
// strings fail parsing of the whole response.
func ParseTypeOfShape(s string) (TypeOfShape, error) {
	switch TypeOfShape(s) {
	case EllipsoidPoint, EllipsoidPointUncertainty, EllipsoidPointEllipse,
		EllipsoidPointAltitude, EllipsoidArc, Polygon:
		return TypeOfShape(s), nil
	}
	return "", fmt.Errorf("unknown type of shape %q", s)
}

// ValidateShape checks that exactly the fields required by the record's
// shape variant are present, that no field of another variant leaked in, and
// that coordinates are valid WGS84 decimal degrees. GMLC-sourced geometry
// must pass this in full.
func ValidateShape(d *GeolocationData) error {
	if err := CheckShapeFields(d); err != nil {
		return err
	}
	if *d.TypeOfShape == Polygon {
		for i, v := range d.Polygon {
			if err := validateDecimalPair(v.Latitude, v.Longitude); err != nil {
				return fmt.Errorf("polygon vertex %d: %w", i, err)
			}
		}
		return nil
	}
	return validateDecimalPair(*d.DeviceLatitude, *d.DeviceLongitude)
}

// CheckShapeFields enforces presence and cross-shape exclusivity only,
// leaving coordinate formats alone. Client updates go through this variant
// because DMS notation is stored verbatim.
func CheckShapeFields(d *GeolocationData) error {
	if d.TypeOfShape == nil {
		return fmt.Errorf("type of shape missing")
	}
	shape := *d.TypeOfShape

	if shape != Polygon && (d.DeviceLatitude == nil || d.DeviceLongitude == nil) {
		return fmt.Errorf("latitude and longitude are required for shape %s", shape)
	}

	switch shape {
	case EllipsoidPoint:
		return rejectLeaks(shape,
			d.Uncertainty != nil, d.UncertaintySemiMajorAxis != nil, d.UncertaintySemiMinorAxis != nil,
			d.AngleOfMajorAxis != nil, d.DeviceAltitude != nil, d.UncertaintyAltitude != nil,
			d.InnerRadius != nil, d.UncertaintyInnerRadius != nil, d.OffsetAngle != nil,
			d.IncludedAngle != nil, len(d.Polygon) > 0)

	case EllipsoidPointUncertainty:
		if d.Uncertainty == nil {
			return fmt.Errorf("uncertainty circle requires uncertainty")
		}
		return rejectLeaks(shape,
			d.UncertaintySemiMajorAxis != nil, d.UncertaintySemiMinorAxis != nil,
			d.AngleOfMajorAxis != nil, d.DeviceAltitude != nil, d.UncertaintyAltitude != nil,
			d.InnerRadius != nil, d.UncertaintyInnerRadius != nil, d.OffsetAngle != nil,
			d.IncludedAngle != nil, len(d.Polygon) > 0)

	case EllipsoidPointEllipse:
		if d.UncertaintySemiMajorAxis == nil || d.UncertaintySemiMinorAxis == nil ||
			d.AngleOfMajorAxis == nil || d.Confidence == nil {
			return fmt.Errorf("uncertainty ellipse requires semi-major, semi-minor, angle and confidence")
		}
		return rejectLeaks(shape,
			d.Uncertainty != nil, d.DeviceAltitude != nil, d.UncertaintyAltitude != nil,
			d.InnerRadius != nil, d.UncertaintyInnerRadius != nil, d.OffsetAngle != nil,
			d.IncludedAngle != nil, len(d.Polygon) > 0)

	case EllipsoidPointAltitude:
		if d.UncertaintySemiMajorAxis == nil || d.UncertaintySemiMinorAxis == nil ||
			d.AngleOfMajorAxis == nil || d.Confidence == nil ||
			d.DeviceAltitude == nil || d.UncertaintyAltitude == nil {
			return fmt.Errorf("altitude ellipsoid requires ellipse fields plus altitude and uncertainty altitude")
		}
		return rejectLeaks(shape,
			d.Uncertainty != nil, d.InnerRadius != nil, d.UncertaintyInnerRadius != nil,
			d.OffsetAngle != nil, d.IncludedAngle != nil, len(d.Polygon) > 0)

	case EllipsoidArc:
		if d.InnerRadius == nil || d.UncertaintyInnerRadius == nil ||
			d.OffsetAngle == nil || d.IncludedAngle == nil || d.Confidence == nil {
			return fmt.Errorf("arc requires inner radius, uncertainty inner radius, offset angle, included angle and confidence")
		}
		return rejectLeaks(shape,
			d.Uncertainty != nil, d.UncertaintySemiMajorAxis != nil, d.UncertaintySemiMinorAxis != nil,
			d.AngleOfMajorAxis != nil, d.DeviceAltitude != nil, d.UncertaintyAltitude != nil,
			len(d.Polygon) > 0)

	case Polygon:
		if len(d.Polygon) < 3 {
			return fmt.Errorf("polygon requires at least 3 vertices, got %d", len(d.Polygon))
		}
		return rejectLeaks(shape,
			d.Uncertainty != nil, d.UncertaintySemiMajorAxis != nil, d.UncertaintySemiMinorAxis != nil,
			d.AngleOfMajorAxis != nil, d.DeviceAltitude != nil, d.UncertaintyAltitude != nil,
			d.InnerRadius != nil, d.UncertaintyInnerRadius != nil, d.OffsetAngle != nil,
			d.IncludedAngle != nil,
			d.DeviceLatitude != nil, d.DeviceLongitude != nil)
	}

	return fmt.Errorf("unknown type of shape %q", shape)
}

func validateDecimalPair(lat, lon string) error {
	latVal, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return fmt.Errorf("latitude %q is not decimal degrees", lat)
	}
	lonVal, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return fmt.Errorf("longitude %q is not decimal degrees", lon)
	}
	if latVal < -90 || latVal > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", latVal)
	}
	if lonVal < -180 || lonVal > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lonVal)
	}
	return nil
}

func rejectLeaks(shape TypeOfShape, leaks ...bool) error {
	for _, leaked := range leaks {
		if leaked {
			return fmt.Errorf("field not allowed for shape %s", shape)
		}
	}
	return nil
}
