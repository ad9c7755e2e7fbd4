package gmlc

// Raw GMLC response schemas. The GMLC returns one JSON document per query
// whose shape depends on network, protocol and operation; every nested block
// is optional and decoded into pointers so the parser can tell absent from
// zero. Block names follow the GMLC's own field spelling.

// Response is the top-level GMLC payload union.
type Response struct {
	Network   string `json:"network"`   // GSM | UMTS | LTE | IMS
	Protocol  string `json:"protocol"`  // MAP | Diameter
	Operation string `json:"operation"` // ATI | PSI | SRIforLCS-PSL | RIR-RIA-PLR-PLA | UDR-UDA
	Result    string `json:"result"`    // SUCCESS | ERROR

	ErrorReason string `json:"errorReason,omitempty"`

	DeviceIdentity  *DeviceIdentity `json:"deviceIdentity,omitempty"`
	ReferenceNumber *int64          `json:"referenceNumber,omitempty"`

	SubscriberState    *string `json:"subscriberState,omitempty"`
	NotReachableReason *string `json:"notReachableReason,omitempty"`

	// MAP ATI/PSI and Diameter Sh-UDR subscriber information blocks.
	CSLocationInformation  *CSLocationInformation  `json:"CSLocationInformation,omitempty"`
	PSLocationInformation  *PSLocationInformation  `json:"PSLocationInformation,omitempty"`
	EPSLocationInformation *EPSLocationInformation `json:"EPSLocationInformation,omitempty"`

	// Deferred flows: MAP SRIforLCS-PSL answer and Diameter PLA.
	PSL *LocationReport `json:"PSL,omitempty"`
	PLA *LocationReport `json:"PLA,omitempty"`
}

// DeviceIdentity carries the identities the GMLC resolved for the target.
type DeviceIdentity struct {
	MSISDN *string `json:"msisdn,omitempty"`
	IMSI   *string `json:"imsi,omitempty"`
	IMEI   *string `json:"imei,omitempty"`
	LMSI   *string `json:"lmsi,omitempty"`
}

// CGIorSAIorLAI is the GSM/UMTS cell or service-area identity tuple. When
// saiPresent is set the ci field carries a service area code.
type CGIorSAIorLAI struct {
	MCC        *int `json:"mcc,omitempty"`
	MNC        *int `json:"mnc,omitempty"`
	LAC        *int `json:"lac,omitempty"`
	CI         *int `json:"ci,omitempty"`
	SAC        *int `json:"sac,omitempty"`
	SAIPresent bool `json:"saiPresent,omitempty"`
}

// RAI is the GPRS routing area identity.
type RAI struct {
	MCC *int `json:"mcc,omitempty"`
	MNC *int `json:"mnc,omitempty"`
	LAC *int `json:"lac,omitempty"`
	RAC *int `json:"rac,omitempty"`
}

// TAI is the E-UTRAN tracking area identity.
type TAI struct {
	MCC *int `json:"mcc,omitempty"`
	MNC *int `json:"mnc,omitempty"`
	TAC *int `json:"tac,omitempty"`
}

// ECGI is the E-UTRAN cell global identity.
type ECGI struct {
	MCC      *int `json:"mcc,omitempty"`
	MNC      *int `json:"mnc,omitempty"`
	ENodeBID *int `json:"eNBId,omitempty"`
	CI       *int `json:"ci,omitempty"`
}

// GeographicalInformation is a shape estimate. typeOfShape discriminates
// which of the remaining fields are meaningful.
type GeographicalInformation struct {
	TypeOfShape              string   `json:"typeOfShape"`
	Latitude                 *float64 `json:"latitude,omitempty"`
	Longitude                *float64 `json:"longitude,omitempty"`
	Uncertainty              *float64 `json:"uncertainty,omitempty"`
	UncertaintySemiMajorAxis *float64 `json:"uncertaintySemiMajorAxis,omitempty"`
	UncertaintySemiMinorAxis *float64 `json:"uncertaintySemiMinorAxis,omitempty"`
	AngleOfMajorAxis         *float64 `json:"angleOfMajorAxis,omitempty"`
	Confidence               *int     `json:"confidence,omitempty"`
	Altitude                 *int     `json:"altitude,omitempty"`
	UncertaintyAltitude      *float64 `json:"uncertaintyAltitude,omitempty"`
	InnerRadius              *int     `json:"innerRadius,omitempty"`
	UncertaintyInnerRadius   *float64 `json:"uncertaintyInnerRadius,omitempty"`
	OffsetAngle              *float64 `json:"offsetAngle,omitempty"`
	IncludedAngle            *float64 `json:"includedAngle,omitempty"`
	Polygon                  []Point  `json:"polygon,omitempty"`
}

// Point is one polygon vertex.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VelocityEstimate is the optional all-or-nothing velocity group.
type VelocityEstimate struct {
	HorizontalSpeed            *float64 `json:"horizontalSpeed,omitempty"`
	VerticalSpeed              *float64 `json:"verticalSpeed,omitempty"`
	UncertaintyHorizontalSpeed *float64 `json:"uncertaintyHorizontalSpeed,omitempty"`
	UncertaintyVerticalSpeed   *float64 `json:"uncertaintyVerticalSpeed,omitempty"`
	Bearing                    *float64 `json:"bearing,omitempty"`
}

// CSLocationInformation is the circuit-switched block of ATI/PSI and Sh-UDR.
type CSLocationInformation struct {
	CurrentLocationRetrieved *bool                    `json:"currentLocationRetrieved,omitempty"`
	AgeOfLocationInformation *int                     `json:"ageOfLocationInformation,omitempty"`
	CGIorSAIorLAI            *CGIorSAIorLAI           `json:"CGIorSAIorLAI,omitempty"`
	GeographicalInformation  *GeographicalInformation `json:"GeographicalInformation,omitempty"`
	GeodeticInformation      *GeographicalInformation `json:"GeodeticInformation,omitempty"`
	MSCNumber                *int64                   `json:"mscNumber,omitempty"`
	VLRNumber                *int64                   `json:"vlrNumber,omitempty"`
}

// PSLocationInformation is the packet-switched block of ATI/PSI and Sh-UDR.
type PSLocationInformation struct {
	CurrentLocationRetrieved *bool                    `json:"currentLocationRetrieved,omitempty"`
	AgeOfLocationInformation *int                     `json:"ageOfLocationInformation,omitempty"`
	CGIorSAIorLAI            *CGIorSAIorLAI           `json:"CGIorSAIorLAI,omitempty"`
	RAI                      *RAI                     `json:"RAI,omitempty"`
	GeographicalInformation  *GeographicalInformation `json:"GeographicalInformation,omitempty"`
	GeodeticInformation      *GeographicalInformation `json:"GeodeticInformation,omitempty"`
	SGSNNumber               *int64                   `json:"sgsnNumber,omitempty"`
}

// EPSLocationInformation is the EPS block of Sh-UDR.
type EPSLocationInformation struct {
	CurrentLocationRetrieved *bool                    `json:"currentLocationRetrieved,omitempty"`
	AgeOfLocationInformation *int                     `json:"ageOfLocationInformation,omitempty"`
	TAI                      *TAI                     `json:"TAI,omitempty"`
	ECGI                     *ECGI                    `json:"ECGI,omitempty"`
	GeographicalInformation  *GeographicalInformation `json:"GeographicalInformation,omitempty"`
	MMEName                  *string                  `json:"mmeName,omitempty"`
}

// ESMLCCellInfo is the cell identity alternative of a location report: the
// GMLC sends exactly one of CGI, SAI or ECGIorESMLCCellInfo.
type ESMLCCellInfo struct {
	CGI                 *CGIorSAIorLAI `json:"CGI,omitempty"`
	SAI                 *CGIorSAIorLAI `json:"SAI,omitempty"`
	ECGIorESMLCCellInfo *ECGI          `json:"ECGIorESMLCCellInfo,omitempty"`
}

// LocationReport is the answer block of the deferred flows (MAP PSL and
// Diameter PLA). Civic address and barometric pressure appear on LTE only.
type LocationReport struct {
	LocationEstimate           *GeographicalInformation `json:"LocationEstimate,omitempty"`
	AdditionalLocationEstimate *GeographicalInformation `json:"AdditionalLocationEstimate,omitempty"`
	AgeOfLocationEstimate      *int                     `json:"ageOfLocationEstimate,omitempty"`
	VelocityEstimate           *VelocityEstimate        `json:"VelocityEstimate,omitempty"`
	CGIorSAIorESMLCCellInfo    *ESMLCCellInfo           `json:"CGIorSAIorESMLCCellInfo,omitempty"`
	TAI                        *TAI                     `json:"TAI,omitempty"`
	CivicAddress               *string                  `json:"civicAddress,omitempty"`
	BarometricPressure         *float64                 `json:"barometricPressure,omitempty"`
	MMEName                    *string                  `json:"mmeName,omitempty"`
	SGSNName                   *string                  `json:"sgsnName,omitempty"`
	MSCNumber                  *int64                   `json:"mscNumber,omitempty"`
}
