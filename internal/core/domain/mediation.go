package domain

// GMLCRequest describes one outbound location query. Operation is derived
// from the geolocation type and target network by the orchestrator.
type GMLCRequest struct {
	DeviceIdentifier string `json:"deviceIdentifier"`
	Domain           string `json:"domain,omitempty"`      // cs | ps
	CoreNetwork      string `json:"coreNetwork,omitempty"` // gsm | umts | lte | ims
	Operation        string `json:"operation"`             // ATI | PSI | SRIforLCS | RIR | UDR

	Priority              string `json:"priority,omitempty"`
	HorizontalAccuracy    string `json:"horizontalAccuracy,omitempty"`
	VerticalAccuracy      string `json:"verticalAccuracy,omitempty"`
	VerticalCoordRequest  string `json:"verticalCoordinateRequest,omitempty"`
	ResponseTime          string `json:"responseTime,omitempty"`
	LocationEstimateType  string `json:"locationEstimateType,omitempty"`
	PsiService            string `json:"psiService,omitempty"`

	// Deferred location parameters, Notification type only.
	DeferredLocationEventType string `json:"deferredLocationEventType,omitempty"`
	GeofenceType              string `json:"geofenceType,omitempty"`
	GeofenceID                string `json:"geofenceId,omitempty"`
	GeofenceOccurrenceInfo    string `json:"geofenceOccurrenceInfo,omitempty"`
	GeofenceIntervalTime      string `json:"geofenceIntervalTime,omitempty"`
	MotionEventRange          string `json:"motionEventRange,omitempty"`
	EventReportingAmount      string `json:"eventReportingAmount,omitempty"`
	EventReportingInterval    string `json:"eventReportingInterval,omitempty"`
	ReferenceNumber           int64  `json:"referenceNumber,omitempty"`
	StatusCallback            string `json:"statusCallback,omitempty"`
}

// MediationOutcome is the normalized result of one GMLC round-trip. When
// Status is failed, Cause carries the GMLC-reported error reason and Data is
// empty; otherwise Data holds the unified location fields.
type MediationOutcome struct {
	Status          ResponseStatus
	Cause           string
	Data            GeolocationData
	Identifiers     SubscriberIdentifiers
	ReferenceNumber *int64
}
