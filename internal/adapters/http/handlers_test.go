package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/endikaluq/geolink/internal/adapters/http"
	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/core/usecases"
)

// ---- Mock repository ----

type mockGeoRepo struct {
	insertFn func(ctx context.Context, g *domain.Geolocation) error
	updateFn func(ctx context.Context, g *domain.Geolocation) error
	getFn    func(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error)
	listFn   func(ctx context.Context, accountSid string) ([]domain.Geolocation, error)
	deleteFn func(ctx context.Context, accountSid, sid string) error
}

func (m *mockGeoRepo) Insert(ctx context.Context, g *domain.Geolocation) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, g)
	}
	return nil
}
func (m *mockGeoRepo) Update(ctx context.Context, g *domain.Geolocation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, g)
	}
	return nil
}
func (m *mockGeoRepo) GetBySid(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountSid, sid)
	}
	return nil, domain.ErrNotFound
}
func (m *mockGeoRepo) ListByAccount(ctx context.Context, accountSid string) ([]domain.Geolocation, error) {
	if m.listFn != nil {
		return m.listFn(ctx, accountSid)
	}
	return nil, nil
}
func (m *mockGeoRepo) Delete(ctx context.Context, accountSid, sid string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, accountSid, sid)
	}
	return nil
}

// ---- Mock GMLC client ----

type mockLocator struct {
	locateFn func(ctx context.Context, req *domain.GMLCRequest) (*domain.MediationOutcome, error)
}

func (m *mockLocator) Locate(ctx context.Context, req *domain.GMLCRequest) (*domain.MediationOutcome, error) {
	if m.locateFn != nil {
		return m.locateFn(ctx, req)
	}
	lat, lon := "43.263", "-2.935"
	shape := domain.EllipsoidPoint
	return &domain.MediationOutcome{
		Status: domain.StatusSuccessful,
		Data: domain.GeolocationData{
			TypeOfShape:     &shape,
			DeviceLatitude:  &lat,
			DeviceLongitude: &lon,
		},
	}, nil
}

// ---- Test helpers ----

func setupApp(repo *mockGeoRepo, gmlc *mockLocator) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	svc := usecases.NewGeolocationService(repo, gmlc, nil, nil, nil, nil)
	handler.SetupRoutes(app, &handler.Dependencies{Geolocations: svc})
	return app
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func storedRecord() *domain.Geolocation {
	lat, lon := "43.263", "-2.935"
	shape := domain.EllipsoidPoint
	created := time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)
	return &domain.Geolocation{
		Sid:              "GL00000000000000000000000000000001",
		AccountSid:       "AC77",
		Type:             domain.ImmediateType,
		DeviceIdentifier: "573195890032",
		DateCreated:      created,
		DateUpdated:      created,
		ResponseStatus:   domain.StatusSuccessful,
		APIVersion:       domain.APIVersion,
		Data: domain.GeolocationData{
			TypeOfShape:     &shape,
			DeviceLatitude:  &lat,
			DeviceLongitude: &lon,
		},
	}
}

// ---- Tests ----

func TestCreateImmediate_Success(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	form := "DeviceIdentifier=573195890032&CoreNetwork=umts"
	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/immediate", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var payload struct {
		Sid             string `json:"sid"`
		AccountSid      string `json:"account_sid"`
		GeolocationType string `json:"geolocation_type"`
		ResponseStatus  string `json:"response_status"`
		DateCreated     string `json:"date_created"`
		APIVersion      string `json:"api_version"`
		URI             string `json:"uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(payload.Sid, "GL") || len(payload.Sid) != 34 {
		t.Errorf("sid = %q", payload.Sid)
	}
	if payload.GeolocationType != "Immediate" {
		t.Errorf("type = %q", payload.GeolocationType)
	}
	if payload.ResponseStatus != "successful" {
		t.Errorf("status = %q", payload.ResponseStatus)
	}
	if payload.APIVersion != domain.APIVersion {
		t.Errorf("api_version = %q", payload.APIVersion)
	}
	if _, err := time.Parse(time.RFC1123, payload.DateCreated); err != nil {
		t.Errorf("date_created %q is not RFC 1123: %v", payload.DateCreated, err)
	}
	wantURI := "/v1/accounts/AC77/geolocations/" + payload.Sid
	if payload.URI != wantURI {
		t.Errorf("uri = %q, want %q", payload.URI, wantURI)
	}
}

func TestCreateImmediate_JSONBody(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	body := `{"DeviceIdentifier": "573195890032", "HorizontalAccuracy": 100}`
	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/immediate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
}

func TestCreate_UnknownParamRejected(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	form := "DeviceIdentifier=573195890032&DeviceIdentifer=typo"
	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/immediate", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(readBody(t, resp.Body)), "DeviceIdentifer") {
		t.Error("error should name the offending parameter")
	}
}

func TestCreate_ValidationError(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/notification",
		strings.NewReader("DeviceIdentifier=573195890032"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(readBody(t, resp.Body)), "StatusCallback") {
		t.Error("error should name the missing parameter")
	}
}

func TestCreate_GMLCFailureStillCreated(t *testing.T) {
	gmlc := &mockLocator{
		locateFn: func(ctx context.Context, req *domain.GMLCRequest) (*domain.MediationOutcome, error) {
			return nil, fmt.Errorf("dial tcp: connection refused")
		},
	}
	app := setupApp(&mockGeoRepo{}, gmlc)

	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/immediate",
		strings.NewReader("DeviceIdentifier=573195890032"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 despite GMLC failure, got %d", resp.StatusCode)
	}

	var payload struct {
		ResponseStatus string  `json:"response_status"`
		Cause          *string `json:"cause"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.ResponseStatus != "failed" {
		t.Errorf("status = %q, want failed", payload.ResponseStatus)
	}
	if payload.Cause == nil {
		t.Error("failed record must expose its cause")
	}
}

func TestGetGeolocation_Success(t *testing.T) {
	rec := storedRecord()
	repo := &mockGeoRepo{
		getFn: func(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
			if accountSid == rec.AccountSid && sid == rec.Sid {
				return rec, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	app := setupApp(repo, &mockLocator{})

	req := httptest.NewRequest("GET", "/v1/accounts/AC77/geolocations/"+rec.Sid, nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-API-Version"); got != domain.APIVersion {
		t.Errorf("X-API-Version = %q", got)
	}

	var payload struct {
		Sid  string `json:"sid"`
		Data struct {
			DeviceLatitude string `json:"device_latitude"`
		} `json:"geolocation_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Sid != rec.Sid {
		t.Errorf("sid = %q", payload.Sid)
	}
	if payload.Data.DeviceLatitude != "43.263" {
		t.Errorf("device_latitude = %q", payload.Data.DeviceLatitude)
	}
}

func TestGetGeolocation_NotFound(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	req := httptest.NewRequest("GET", "/v1/accounts/AC77/geolocations/GLmissing", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListGeolocations_Pagination(t *testing.T) {
	records := make([]domain.Geolocation, 5)
	for i := range records {
		r := storedRecord()
		r.Sid = fmt.Sprintf("GL%032d", i)
		records[i] = *r
	}
	repo := &mockGeoRepo{
		listFn: func(ctx context.Context, accountSid string) ([]domain.Geolocation, error) {
			return records, nil
		},
	}
	app := setupApp(repo, &mockLocator{})

	req := httptest.NewRequest("GET", "/v1/accounts/AC77/geolocations/?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 5 {
		t.Errorf("total = %d, want 5", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("page size = %d, want 2", len(result.Data))
	}
}

func TestUpdateGeolocation_MergeByPost(t *testing.T) {
	rec := storedRecord()
	repo := &mockGeoRepo{
		getFn: func(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
			copied := *rec
			return &copied, nil
		},
	}
	app := setupApp(repo, &mockLocator{})

	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/"+rec.Sid,
		strings.NewReader("DeviceLatitude=43.300"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var payload struct {
		Data struct {
			DeviceLatitude  string `json:"device_latitude"`
			DeviceLongitude string `json:"device_longitude"`
		} `json:"geolocation_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Data.DeviceLatitude != "43.300" {
		t.Errorf("device_latitude = %q", payload.Data.DeviceLatitude)
	}
	if payload.Data.DeviceLongitude != "-2.935" {
		t.Error("merge must keep the stored longitude")
	}
}

func TestUpdateGeolocation_ImmutableIdentifier(t *testing.T) {
	rec := storedRecord()
	repo := &mockGeoRepo{
		getFn: func(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
			copied := *rec
			return &copied, nil
		},
	}
	app := setupApp(repo, &mockLocator{})

	req := httptest.NewRequest("POST", "/v1/accounts/AC77/geolocations/"+rec.Sid,
		strings.NewReader("DeviceIdentifier=31650000000"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteGeolocation(t *testing.T) {
	rec := storedRecord()
	repo := &mockGeoRepo{
		getFn: func(ctx context.Context, accountSid, sid string) (*domain.Geolocation, error) {
			if sid == rec.Sid {
				copied := *rec
				return &copied, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	app := setupApp(repo, &mockLocator{})

	req := httptest.NewRequest("DELETE", "/v1/accounts/AC77/geolocations/"+rec.Sid, nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("DELETE", "/v1/accounts/AC77/geolocations/GLmissing", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 for unknown sid, got %d", resp.StatusCode)
	}
}

func TestLegacyRoute_DeprecationHeaders(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	req := httptest.NewRequest("POST", "/v1/Accounts/AC77/Geolocation/Immediate",
		strings.NewReader("DeviceIdentifier=573195890032"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 on the legacy path, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") == "" {
		t.Error("legacy route must carry a Deprecation header")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("legacy route must carry a Sunset header")
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(&mockGeoRepo{}, &mockLocator{})

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
