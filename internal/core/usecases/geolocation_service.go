package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/core/ports"
	"github.com/endikaluq/geolink/internal/pkg/geospatial"
	"github.com/endikaluq/geolink/internal/pkg/metrics"
)

// GeolocationService orchestrates mediation: it validates requests, drives
// the GMLC round-trip, folds the outcome into the canonical record and
// persists it. Mutations against the same record are serialized so callers
// always observe a complete before/after snapshot.
type GeolocationService struct {
	repo      ports.GeolocationRepository
	gmlc      ports.GMLCClient
	cache     ports.CacheService
	events    ports.EventPublisher
	scheduler ports.ReportScheduler
	logger    *slog.Logger

	locks sync.Map // sid -> *sync.Mutex
}

// NewGeolocationService creates a new GeolocationService. cache, events and
// scheduler may be nil; the service degrades to direct repository access.
func NewGeolocationService(
	repo ports.GeolocationRepository,
	gmlc ports.GMLCClient,
	cache ports.CacheService,
	events ports.EventPublisher,
	scheduler ports.ReportScheduler,
	logger *slog.Logger,
) *GeolocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeolocationService{
		repo:      repo,
		gmlc:      gmlc,
		cache:     cache,
		events:    events,
		scheduler: scheduler,
		logger:    logger,
	}
}

// NewSid mints a record identifier: "GL" plus 32 hex characters.
func NewSid() string {
	return "GL" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *GeolocationService) lock(sid string) func() {
	m, _ := s.locks.LoadOrStore(sid, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create validates the request, performs one GMLC round-trip and persists
// the resulting record. A mediation failure is absorbed into the record as
// responseStatus failed with a cause; only validation and storage errors
// reach the caller.
func (s *GeolocationService) Create(ctx context.Context, accountSid string, gType domain.GeolocationType, req *GeolocationRequest) (*domain.Geolocation, error) {
	if verr := ValidateCreate(gType, req); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	g := &domain.Geolocation{
		Sid:              NewSid(),
		AccountSid:       accountSid,
		Type:             gType,
		DeviceIdentifier: strings.TrimSpace(*req.DeviceIdentifier),
		Domain:           req.Domain,
		CoreNetwork:      req.CoreNetwork,
		StatusCallback:   req.StatusCallback,
		DateCreated:      now,
		DateUpdated:      now,
		APIVersion:       domain.APIVersion,
	}

	s.mediate(ctx, g, req)

	if err := s.repo.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("insert geolocation: %w", err)
	}
	metrics.GeolocationsCreated.WithLabelValues(string(gType)).Inc()
	s.invalidateList(ctx, accountSid)
	s.publish(ctx, "geolocation.created", g)
	s.scheduleReports(ctx, g, req)
	return g, nil
}

// Get returns one record, read-through cached.
func (s *GeolocationService) Get(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
	cacheKey := "geolocations:" + accountSid + ":" + sid
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("get").Inc()
			var g domain.Geolocation
			if err := json.Unmarshal(data, &g); err == nil {
				return &g, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("get").Inc()
		}
	}

	g, err := s.repo.GetBySid(ctx, accountSid, sid)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(g); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return g, nil
}

// List returns all records for the account, most recent first.
func (s *GeolocationService) List(ctx context.Context, accountSid string) ([]domain.Geolocation, error) {
	return s.repo.ListByAccount(ctx, accountSid)
}

// Update mutates one record. POST semantics merge the supplied parameters on
// top of the stored data (replace=false); PUT semantics rebuild the data
// from exactly the supplied parameters (replace=true), clearing everything
// omitted. A request carrying no location-data parameters is a refresh and
// performs a new GMLC round-trip instead.
func (s *GeolocationService) Update(ctx context.Context, accountSid, sid string, req *GeolocationRequest, replace bool) (*domain.Geolocation, error) {
	unlock := s.lock(sid)
	defer unlock()

	g, err := s.repo.GetBySid(ctx, accountSid, sid)
	if err != nil {
		return nil, err
	}
	if verr := ValidateUpdate(g.Type, req); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	prevData := g.Data
	mediated := false
	switch {
	case req.hasLocationData():
		if err := s.applyClientUpdate(g, req, replace, now); err != nil {
			return nil, err
		}
	case req.LastGeolocationResponse != nil:
		// Metadata-only update, nothing to mediate.
	default:
		s.mediate(ctx, g, req)
		mediated = true
	}
	g.DateUpdated = now

	if req.LastGeolocationResponse != nil {
		last, _ := strconv.ParseBool(*req.LastGeolocationResponse)
		g.LastGeolocationResponse = &last
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update geolocation: %w", err)
	}
	s.invalidate(ctx, accountSid, sid)
	s.publish(ctx, "geolocation.updated", g)

	if g.Type == domain.NotificationType && s.events != nil &&
		(req.hasLocationData() || mediated) && shouldNotify(&prevData, &g.Data) {
		if err := s.events.PublishNotification(ctx, g); err != nil {
			s.logger.Warn("publish notification failed", "sid", g.Sid, "error", err)
		} else {
			metrics.NotificationsPublished.Inc()
		}
	}
	return g, nil
}

// Delete removes the record. A deleted record is gone for good; subsequent
// reads return not found.
func (s *GeolocationService) Delete(ctx context.Context, accountSid, sid string) error {
	unlock := s.lock(sid)
	defer unlock()

	g, err := s.repo.GetBySid(ctx, accountSid, sid)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, accountSid, sid); err != nil {
		return err
	}
	s.locks.Delete(sid)
	s.invalidate(ctx, accountSid, sid)
	s.publish(ctx, "geolocation.deleted", g)
	return nil
}

// applyClientUpdate folds client-pushed location data into the record. This
// path serves deferred GMLC callbacks relayed by the client and manual
// corrections; it never calls the GMLC.
func (s *GeolocationService) applyClientUpdate(g *domain.Geolocation, req *GeolocationRequest, replace bool, now time.Time) error {
	if req.ResponseStatus != nil && domain.ResponseStatus(*req.ResponseStatus) == domain.StatusFailed {
		cause := "error cause unspecified"
		if req.CauseText != nil {
			cause = *req.CauseText
		}
		g.Failed(cause, now)
		return nil
	}

	// A malformed coordinate never rejects the update: the record itself
	// transitions to failed with a cause naming the WGS84 violation.
	if req.DeviceLatitude != nil {
		if err := domain.CheckLatitude(*req.DeviceLatitude); err != nil {
			g.Failed(fmt.Sprintf("DeviceLatitude violates WGS84: %v", err), now)
			return nil
		}
	}
	if req.DeviceLongitude != nil {
		if err := domain.CheckLongitude(*req.DeviceLongitude); err != nil {
			g.Failed(fmt.Sprintf("DeviceLongitude violates WGS84: %v", err), now)
			return nil
		}
	}

	data := g.Data
	if verr := req.mergeInto(&data, replace); verr != nil {
		return verr
	}
	if data.TypeOfShape != nil {
		if err := domain.CheckShapeFields(&data); err != nil {
			return domain.NewValidationError("TypeOfShape", "%v", err)
		}
	}

	status := g.ResponseStatus
	if req.ResponseStatus != nil {
		status = domain.ResponseStatus(*req.ResponseStatus)
	} else if status == domain.StatusFailed || status == "" {
		status = domain.StatusSuccessful
	}
	g.Amended(status, data)
	g.ResolveIdentifiers(g.Identifiers)
	return nil
}

// mediate performs the single GMLC attempt for the record and records the
// outcome, failed included. It never returns an error: per the absorption
// rule every GMLC problem becomes a terminal failed record.
func (s *GeolocationService) mediate(ctx context.Context, g *domain.Geolocation, req *GeolocationRequest) {
	now := time.Now().UTC()
	gmlcReq := s.buildGMLCRequest(g, req)

	outcome, err := s.gmlc.Locate(ctx, gmlcReq)
	if err != nil {
		cause := mediationCause(err)
		s.logger.Warn("mediation failed",
			"sid", g.Sid, "operation", gmlcReq.Operation, "cause", cause, "error", err)
		metrics.MediationFailures.WithLabelValues(cause).Inc()
		g.Failed(cause, now)
		return
	}

	if outcome.Status == domain.StatusFailed {
		metrics.MediationFailures.WithLabelValues("gmlc-error").Inc()
		g.Failed(outcome.Cause, now)
		return
	}

	data := outcome.Data
	applyDeferredParams(&data, req)
	// A refresh carries the deferred trigger parameters already on the
	// record; the GMLC outcome never includes them.
	if data.DeferredLocationEventType == nil {
		data.DeferredLocationEventType = g.Data.DeferredLocationEventType
		data.GeofenceType = g.Data.GeofenceType
		data.GeofenceID = g.Data.GeofenceID
		data.MotionEventRange = g.Data.MotionEventRange
	}
	g.Succeeded(outcome.Status, data, now)
	g.ResolveIdentifiers(outcome.Identifiers)
	if g.Type == domain.NotificationType {
		if outcome.ReferenceNumber != nil {
			g.ReferenceNumber = outcome.ReferenceNumber
		} else {
			g.ReferenceNumber = &gmlcReq.ReferenceNumber
		}
	}
}

// buildGMLCRequest derives the protocol operation from the record type and
// target network, and passes the QoS and deferred parameters through.
func (s *GeolocationService) buildGMLCRequest(g *domain.Geolocation, req *GeolocationRequest) *domain.GMLCRequest {
	out := &domain.GMLCRequest{
		DeviceIdentifier: g.DeviceIdentifier,
		Domain:           deref(g.Domain),
		CoreNetwork:      deref(g.CoreNetwork),

		Priority:             deref(req.Priority),
		HorizontalAccuracy:   deref(req.HorizontalAccuracy),
		VerticalAccuracy:     deref(req.VerticalAccuracy),
		VerticalCoordRequest: deref(req.VerticalCoordinateRequest),
		ResponseTime:         deref(req.ResponseTime),
		LocationEstimateType: deref(req.LocationEstimateType),
		PsiService:           deref(req.PsiService),
		StatusCallback:       deref(req.StatusCallback),

		DeferredLocationEventType: deref(req.DeferredLocationEventType),
		GeofenceType:              deref(req.GeofenceType),
		GeofenceID:                deref(req.GeofenceID),
		GeofenceOccurrenceInfo:    deref(req.GeofenceOccurrenceInfo),
		GeofenceIntervalTime:      deref(req.GeofenceIntervalTime),
		MotionEventRange:          deref(req.MotionEventRange),
		EventReportingAmount:      deref(req.EventReportingAmount),
		EventReportingInterval:    deref(req.EventReportingInterval),
	}

	// A refresh re-sends the deferred parameters stored on the record.
	if out.DeferredLocationEventType == "" {
		out.DeferredLocationEventType = deref(g.Data.DeferredLocationEventType)
		out.GeofenceType = deref(g.Data.GeofenceType)
		out.GeofenceID = deref(g.Data.GeofenceID)
		out.MotionEventRange = deref(g.Data.MotionEventRange)
	}

	out.Operation = deriveOperation(g.Type, out.Domain, out.CoreNetwork, out.PsiService)
	if g.Type == domain.NotificationType {
		if g.ReferenceNumber != nil {
			out.ReferenceNumber = *g.ReferenceNumber
		} else {
			out.ReferenceNumber = rand.Int64N(1 << 31)
		}
	}
	return out
}

// deriveOperation selects the protocol operation:
// IMS uses Diameter Sh (UDR), LTE uses Diameter SLg/SLh (RIR), and 2G/3G use
// MAP, where Immediate queries go through ATI (or PSI for the packet domain
// or when PSI service is requested) and deferred ones through SRIforLCS.
func deriveOperation(gType domain.GeolocationType, netDomain, coreNetwork, psiService string) string {
	switch coreNetwork {
	case "ims":
		return "UDR"
	case "lte":
		return "RIR"
	}
	if gType == domain.NotificationType {
		return "SRIforLCS"
	}
	if netDomain == "ps" || psiService == "true" {
		return "PSI"
	}
	return "ATI"
}

// applyDeferredParams copies the accepted deferred-location parameters into
// the record data so a Notification record documents its own trigger.
func applyDeferredParams(data *domain.GeolocationData, req *GeolocationRequest) {
	copyString(req.DeferredLocationEventType, &data.DeferredLocationEventType)
	copyString(req.GeofenceType, &data.GeofenceType)
	copyString(req.GeofenceID, &data.GeofenceID)
	copyString(req.MotionEventRange, &data.MotionEventRange)
}

func (s *GeolocationService) scheduleReports(ctx context.Context, g *domain.Geolocation, req *GeolocationRequest) {
	if s.scheduler == nil || g.Type != domain.NotificationType ||
		g.ResponseStatus == domain.StatusFailed || req.EventReportingAmount == nil {
		return
	}
	amount, _ := strconv.Atoi(*req.EventReportingAmount)
	interval := 60
	if req.EventReportingInterval != nil {
		interval, _ = strconv.Atoi(*req.EventReportingInterval)
	}
	if err := s.scheduler.ScheduleReports(ctx, g.AccountSid, g.Sid, amount, interval); err != nil {
		s.logger.Warn("schedule periodic reports failed", "sid", g.Sid, "error", err)
	}
}

func (s *GeolocationService) publish(ctx context.Context, event string, g *domain.Geolocation) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishGeolocationEvent(ctx, event, g); err != nil {
		s.logger.Warn("publish event failed", "event", event, "sid", g.Sid, "error", err)
	}
}

func (s *GeolocationService) invalidate(ctx context.Context, accountSid, sid string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "geolocations:"+accountSid+":"+sid)
	s.invalidateList(ctx, accountSid)
}

func (s *GeolocationService) invalidateList(ctx context.Context, accountSid string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "geolocations:"+accountSid+":list")
}

// shouldNotify suppresses motion-event reports when the device has not left
// the configured range around its previous fix. Every other deferred report
// passes through. Fixes without decimal coordinates always pass.
func shouldNotify(prev, next *domain.GeolocationData) bool {
	if next.DeferredLocationEventType == nil || *next.DeferredLocationEventType != eventMotionEvent {
		return true
	}
	if next.MotionEventRange == nil {
		return true
	}
	rangeMeters, err := strconv.ParseFloat(*next.MotionEventRange, 64)
	if err != nil {
		return true
	}
	prevLat, prevLon, ok := decimalFix(prev)
	if !ok {
		return true
	}
	nextLat, nextLon, ok := decimalFix(next)
	if !ok {
		return true
	}
	return !geospatial.WithinRange(prevLat, prevLon, nextLat, nextLon, rangeMeters)
}

func decimalFix(d *domain.GeolocationData) (lat, lon float64, ok bool) {
	if d.DeviceLatitude == nil || d.DeviceLongitude == nil {
		return 0, 0, false
	}
	lat, err := domain.ParseCoordinate(*d.DeviceLatitude)
	if err != nil {
		return 0, 0, false
	}
	lon, err = domain.ParseCoordinate(*d.DeviceLongitude)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// mediationCause maps a GMLC client error to the stored failure cause.
func mediationCause(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.CauseTimeout
	case errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrUnexpectedContentType):
		return domain.CauseMalformedResponse
	default:
		return domain.CauseConnectionFailure
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
