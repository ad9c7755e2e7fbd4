package gmlc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/endikaluq/geolink/internal/core/domain"
)

// Parse normalizes one raw GMLC JSON payload into a mediation outcome.
// A GMLC-reported ERROR result is a valid outcome (status failed, cause set);
// an undecodable payload or a shape missing its required fields is an error
// wrapping domain.ErrMalformedResponse.
func Parse(raw []byte) (*domain.MediationOutcome, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if resp.Result == "ERROR" {
		cause := resp.ErrorReason
		if cause == "" {
			cause = "GMLC reported an unspecified error"
		}
		return &domain.MediationOutcome{
			Status:      domain.StatusFailed,
			Cause:       cause,
			Identifiers: identifiers(resp.DeviceIdentity),
		}, nil
	}

	var (
		out *domain.MediationOutcome
		err error
	)
	switch resp.Operation {
	case "ATI", "PSI":
		out, err = parseSubscriberInfo(&resp)
	case "SRIforLCS-PSL", "PSL":
		out, err = parseLocationReport(&resp, resp.PSL)
	case "RIR-RIA-PLR-PLA", "PLA":
		out, err = parseLocationReport(&resp, resp.PLA)
	case "UDR-UDA", "UDR":
		out, err = parseShProfile(&resp)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", domain.ErrMalformedResponse, resp.Operation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	out.Identifiers = identifiers(resp.DeviceIdentity)
	if out.ReferenceNumber == nil {
		out.ReferenceNumber = resp.ReferenceNumber
	}
	return out, nil
}

// parseSubscriberInfo handles MAP ATI and PSI: the CS block wins when it
// carries a current location, then the PS block under the same rule, then
// whichever block has saiPresent set. A response with neither block but a
// not-reachable reason is a partial success carrying state only.
func parseSubscriberInfo(resp *Response) (*domain.MediationOutcome, error) {
	cs, ps := resp.CSLocationInformation, resp.PSLocationInformation

	switch {
	case cs != nil && isTrue(cs.CurrentLocationRetrieved) && csPopulated(cs):
		return csOutcome(resp, cs)
	case ps != nil && isTrue(ps.CurrentLocationRetrieved) && psPopulated(ps):
		return psOutcome(resp, ps)
	case cs != nil && cs.CGIorSAIorLAI != nil && cs.CGIorSAIorLAI.SAIPresent:
		return csOutcome(resp, cs)
	case ps != nil && ps.CGIorSAIorLAI != nil && ps.CGIorSAIorLAI.SAIPresent:
		return psOutcome(resp, ps)
	case cs != nil && csPopulated(cs):
		return csOutcome(resp, cs)
	case ps != nil && psPopulated(ps):
		return psOutcome(resp, ps)
	case resp.NotReachableReason != nil:
		return notReachableOutcome(resp), nil
	}
	return nil, fmt.Errorf("no usable location information block")
}

// parseShProfile handles Diameter Sh UDR-UDA: EPS wins when it carries a
// current location, then PS, then CS, with retrieval flags and location age
// read per-block.
func parseShProfile(resp *Response) (*domain.MediationOutcome, error) {
	eps, ps, cs := resp.EPSLocationInformation, resp.PSLocationInformation, resp.CSLocationInformation

	switch {
	case eps != nil && isTrue(eps.CurrentLocationRetrieved) && epsPopulated(eps):
		return epsOutcome(resp, eps)
	case ps != nil && isTrue(ps.CurrentLocationRetrieved) && psPopulated(ps):
		return psOutcome(resp, ps)
	case cs != nil && isTrue(cs.CurrentLocationRetrieved) && csPopulated(cs):
		return csOutcome(resp, cs)
	case eps != nil && epsPopulated(eps):
		return epsOutcome(resp, eps)
	case ps != nil && psPopulated(ps):
		return psOutcome(resp, ps)
	case cs != nil && csPopulated(cs):
		return csOutcome(resp, cs)
	case resp.NotReachableReason != nil:
		return notReachableOutcome(resp), nil
	}
	return nil, fmt.Errorf("no usable location information block")
}

// parseLocationReport handles the deferred flows (MAP PSL, Diameter PLA).
// The GMLC leg always completes synchronously here, so the outcome is
// successful whenever the report parses.
func parseLocationReport(resp *Response, report *LocationReport) (*domain.MediationOutcome, error) {
	if report == nil {
		return nil, fmt.Errorf("location report block missing")
	}

	var d domain.GeolocationData

	switch {
	case report.LocationEstimate != nil:
		if err := applyShape(&d, report.LocationEstimate); err != nil {
			return nil, err
		}
	case report.AdditionalLocationEstimate != nil:
		if err := applyShape(&d, report.AdditionalLocationEstimate); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("location estimate missing")
	}

	if report.VelocityEstimate != nil {
		if err := applyVelocity(&d, report.VelocityEstimate); err != nil {
			return nil, err
		}
	}

	// Cell identity: exactly one of CGI, SAI or ECGI, plus an optional TAI.
	if info := report.CGIorSAIorESMLCCellInfo; info != nil {
		switch {
		case info.CGI != nil:
			applyCGI(&d, info.CGI, false)
		case info.SAI != nil:
			applyCGI(&d, info.SAI, true)
		case info.ECGIorESMLCCellInfo != nil:
			applyECGI(&d, info.ECGIorESMLCCellInfo)
		}
	}
	if report.TAI != nil {
		applyTAI(&d, report.TAI)
	}

	d.LocationAge = report.AgeOfLocationEstimate

	if resp.Network == "LTE" {
		d.CivicAddress = report.CivicAddress
		d.BarometricPressure = report.BarometricPressure
	}

	switch {
	case report.MMEName != nil:
		d.NetworkEntityName = report.MMEName
	case report.SGSNName != nil:
		d.NetworkEntityName = report.SGSNName
	}
	d.NetworkEntityAddress = report.MSCNumber

	return &domain.MediationOutcome{Status: domain.StatusSuccessful, Data: d}, nil
}

func csOutcome(resp *Response, cs *CSLocationInformation) (*domain.MediationOutcome, error) {
	var d domain.GeolocationData

	if cs.CGIorSAIorLAI != nil {
		applyCGI(&d, cs.CGIorSAIorLAI, cs.CGIorSAIorLAI.SAIPresent)
	}
	gi := cs.GeographicalInformation
	if gi == nil {
		gi = cs.GeodeticInformation
	}
	if gi != nil {
		if err := applyShape(&d, gi); err != nil {
			return nil, err
		}
	}
	d.LocationAge = cs.AgeOfLocationInformation
	switch {
	case cs.MSCNumber != nil:
		d.NetworkEntityAddress = cs.MSCNumber
	case cs.VLRNumber != nil:
		d.NetworkEntityAddress = cs.VLRNumber
	}
	d.SubscriberState = resp.SubscriberState

	return &domain.MediationOutcome{Status: retrievalStatus(cs.CurrentLocationRetrieved), Data: d}, nil
}

func psOutcome(resp *Response, ps *PSLocationInformation) (*domain.MediationOutcome, error) {
	var d domain.GeolocationData

	// CGI/SAI and RAI are alternatives of the same identity category.
	switch {
	case ps.CGIorSAIorLAI != nil:
		applyCGI(&d, ps.CGIorSAIorLAI, ps.CGIorSAIorLAI.SAIPresent)
	case ps.RAI != nil:
		applyRAI(&d, ps.RAI)
	}
	gi := ps.GeographicalInformation
	if gi == nil {
		gi = ps.GeodeticInformation
	}
	if gi != nil {
		if err := applyShape(&d, gi); err != nil {
			return nil, err
		}
	}
	d.LocationAge = ps.AgeOfLocationInformation
	d.NetworkEntityAddress = ps.SGSNNumber
	d.SubscriberState = resp.SubscriberState

	return &domain.MediationOutcome{Status: retrievalStatus(ps.CurrentLocationRetrieved), Data: d}, nil
}

func epsOutcome(resp *Response, eps *EPSLocationInformation) (*domain.MediationOutcome, error) {
	var d domain.GeolocationData

	// ECGI carries the cell identity; TAI is only used when ECGI is absent.
	switch {
	case eps.ECGI != nil:
		applyECGI(&d, eps.ECGI)
		if eps.TAI != nil {
			d.TrackingAreaCode = eps.TAI.TAC
		}
	case eps.TAI != nil:
		applyTAI(&d, eps.TAI)
	}
	if eps.GeographicalInformation != nil {
		if err := applyShape(&d, eps.GeographicalInformation); err != nil {
			return nil, err
		}
	}
	d.LocationAge = eps.AgeOfLocationInformation
	d.NetworkEntityName = eps.MMEName
	d.SubscriberState = resp.SubscriberState

	return &domain.MediationOutcome{Status: retrievalStatus(eps.CurrentLocationRetrieved), Data: d}, nil
}

// notReachableOutcome builds the partial-success outcome required when the
// subscriber cannot be paged: state fields only, no geometry.
func notReachableOutcome(resp *Response) *domain.MediationOutcome {
	d := domain.GeolocationData{
		SubscriberState:    resp.SubscriberState,
		NotReachableReason: resp.NotReachableReason,
	}
	return &domain.MediationOutcome{Status: domain.StatusPartiallySuccessful, Data: d}
}

// applyShape copies the shape-discriminated geometry fields, enforcing the
// per-variant required-field table and WGS84 ranges.
func applyShape(d *domain.GeolocationData, gi *GeographicalInformation) error {
	shape, err := domain.ParseTypeOfShape(gi.TypeOfShape)
	if err != nil {
		return err
	}
	d.TypeOfShape = &shape

	if shape == domain.Polygon {
		if len(gi.Polygon) < 3 {
			return fmt.Errorf("polygon requires at least 3 vertices, got %d", len(gi.Polygon))
		}
		for _, p := range gi.Polygon {
			if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
				return fmt.Errorf("polygon vertex (%v, %v) out of WGS84 range", p.Latitude, p.Longitude)
			}
			d.Polygon = append(d.Polygon, domain.Vertex{
				Latitude:  formatCoord(p.Latitude),
				Longitude: formatCoord(p.Longitude),
			})
		}
		return nil
	}

	if gi.Latitude == nil || gi.Longitude == nil {
		return fmt.Errorf("latitude and longitude required for shape %s", shape)
	}
	if *gi.Latitude < -90 || *gi.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", *gi.Latitude)
	}
	if *gi.Longitude < -180 || *gi.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", *gi.Longitude)
	}
	lat, lon := formatCoord(*gi.Latitude), formatCoord(*gi.Longitude)
	d.DeviceLatitude, d.DeviceLongitude = &lat, &lon

	switch shape {
	case domain.EllipsoidPoint:
		// Coordinates only.
	case domain.EllipsoidPointUncertainty:
		if gi.Uncertainty == nil {
			return fmt.Errorf("uncertainty required for shape %s", shape)
		}
		d.Uncertainty = gi.Uncertainty
	case domain.EllipsoidPointEllipse, domain.EllipsoidPointAltitude:
		if gi.UncertaintySemiMajorAxis == nil || gi.UncertaintySemiMinorAxis == nil ||
			gi.AngleOfMajorAxis == nil || gi.Confidence == nil {
			return fmt.Errorf("ellipse fields required for shape %s", shape)
		}
		d.UncertaintySemiMajorAxis = gi.UncertaintySemiMajorAxis
		d.UncertaintySemiMinorAxis = gi.UncertaintySemiMinorAxis
		d.AngleOfMajorAxis = gi.AngleOfMajorAxis
		d.Confidence = gi.Confidence
		if shape == domain.EllipsoidPointAltitude {
			if gi.Altitude == nil || gi.UncertaintyAltitude == nil {
				return fmt.Errorf("altitude fields required for shape %s", shape)
			}
			d.DeviceAltitude = gi.Altitude
			d.UncertaintyAltitude = gi.UncertaintyAltitude
		}
	case domain.EllipsoidArc:
		if gi.InnerRadius == nil || gi.UncertaintyInnerRadius == nil ||
			gi.OffsetAngle == nil || gi.IncludedAngle == nil || gi.Confidence == nil {
			return fmt.Errorf("arc fields required for shape %s", shape)
		}
		d.InnerRadius = gi.InnerRadius
		d.UncertaintyInnerRadius = gi.UncertaintyInnerRadius
		d.OffsetAngle = gi.OffsetAngle
		d.IncludedAngle = gi.IncludedAngle
		d.Confidence = gi.Confidence
	}
	return nil
}

// applyVelocity copies the all-or-nothing velocity group.
func applyVelocity(d *domain.GeolocationData, ve *VelocityEstimate) error {
	if ve.HorizontalSpeed == nil || ve.Bearing == nil {
		return fmt.Errorf("velocity estimate missing horizontal speed or bearing")
	}
	d.DeviceHorizontalSpeed = ve.HorizontalSpeed
	d.DeviceVerticalSpeed = ve.VerticalSpeed
	d.UncertaintyHorizontalSpeed = ve.UncertaintyHorizontalSpeed
	d.UncertaintyVerticalSpeed = ve.UncertaintyVerticalSpeed
	d.Bearing = ve.Bearing
	return nil
}

func applyCGI(d *domain.GeolocationData, cgi *CGIorSAIorLAI, saiPresent bool) {
	d.MobileCountryCode = cgi.MCC
	d.MobileNetworkCode = cgi.MNC
	d.LocationAreaCode = cgi.LAC
	if saiPresent {
		if cgi.SAC != nil {
			d.ServiceAreaCode = cgi.SAC
		} else {
			d.ServiceAreaCode = cgi.CI
		}
		return
	}
	d.CellID = cgi.CI
}

func applyRAI(d *domain.GeolocationData, rai *RAI) {
	d.MobileCountryCode = rai.MCC
	d.MobileNetworkCode = rai.MNC
	d.LocationAreaCode = rai.LAC
	d.RoutingAreaCode = rai.RAC
}

func applyTAI(d *domain.GeolocationData, tai *TAI) {
	if d.MobileCountryCode == nil {
		d.MobileCountryCode = tai.MCC
	}
	if d.MobileNetworkCode == nil {
		d.MobileNetworkCode = tai.MNC
	}
	d.TrackingAreaCode = tai.TAC
}

func applyECGI(d *domain.GeolocationData, ecgi *ECGI) {
	d.MobileCountryCode = ecgi.MCC
	d.MobileNetworkCode = ecgi.MNC
	d.ENodeBID = ecgi.ENodeBID
	d.CellID = ecgi.CI
}

func retrievalStatus(current *bool) domain.ResponseStatus {
	if isTrue(current) {
		return domain.StatusSuccessful
	}
	return domain.StatusLastKnown
}

func csPopulated(cs *CSLocationInformation) bool {
	return cs.CGIorSAIorLAI != nil || cs.GeographicalInformation != nil || cs.GeodeticInformation != nil
}

func psPopulated(ps *PSLocationInformation) bool {
	return ps.CGIorSAIorLAI != nil || ps.RAI != nil || ps.GeographicalInformation != nil || ps.GeodeticInformation != nil
}

func epsPopulated(eps *EPSLocationInformation) bool {
	return eps.TAI != nil || eps.ECGI != nil || eps.GeographicalInformation != nil
}

func isTrue(b *bool) bool { return b != nil && *b }

func identifiers(di *DeviceIdentity) domain.SubscriberIdentifiers {
	if di == nil {
		return domain.SubscriberIdentifiers{}
	}
	return domain.SubscriberIdentifiers{MSISDN: di.MSISDN, IMSI: di.IMSI, IMEI: di.IMEI, LMSI: di.LMSI}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
