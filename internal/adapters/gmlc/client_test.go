package gmlc

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/endikaluq/geolink/internal/core/domain"
)

const testGMLCURL = "http://gmlc.test/gmlc/rest"

func testRequest() *domain.GMLCRequest {
	return &domain.GMLCRequest{
		DeviceIdentifier: "573195890032",
		Domain:           "cs",
		CoreNetwork:      "umts",
		Operation:        "ATI",
	}
}

func TestClient_Locate_Success(t *testing.T) {
	c := New(testGMLCURL, 5*time.Second)
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testGMLCURL,
		httpmock.NewStringResponder(200, `{
			"network": "UMTS",
			"protocol": "MAP",
			"operation": "ATI",
			"result": "SUCCESS",
			"CSLocationInformation": {
				"currentLocationRetrieved": true,
				"CGIorSAIorLAI": {"mcc": 732, "mnc": 101, "lac": 1, "ci": 20042}
			}
		}`).HeaderSet(http.Header{"Content-Type": []string{"application/json"}}))

	out, err := c.Locate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != domain.StatusSuccessful {
		t.Errorf("status = %s, want successful", out.Status)
	}
	if out.Data.CellID == nil || *out.Data.CellID != 20042 {
		t.Error("cell id missing from parsed outcome")
	}
	if httpmock.GetTotalCallCount() != 1 {
		t.Errorf("expected exactly 1 GMLC call, got %d", httpmock.GetTotalCallCount())
	}
}

func TestClient_Locate_UnexpectedContentType(t *testing.T) {
	c := New(testGMLCURL, 5*time.Second)
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testGMLCURL,
		httpmock.NewStringResponder(200, `<xml/>`).
			HeaderSet(http.Header{"Content-Type": []string{"text/xml; charset=utf-8"}}))

	_, err := c.Locate(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrUnexpectedContentType) {
		t.Fatalf("expected ErrUnexpectedContentType, got %v", err)
	}
}

func TestClient_Locate_Malformed(t *testing.T) {
	c := New(testGMLCURL, 5*time.Second)
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testGMLCURL,
		httpmock.NewStringResponder(200, `{"operation": "ATI", "result": "SUCCESS"}`).
			HeaderSet(http.Header{"Content-Type": []string{"application/json"}}))

	_, err := c.Locate(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_Locate_Timeout(t *testing.T) {
	c := New(testGMLCURL, 50*time.Millisecond)
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testGMLCURL,
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	_, err := c.Locate(context.Background(), testRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestClient_Locate_ConnectionRefused(t *testing.T) {
	c := New(testGMLCURL, 5*time.Second)
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testGMLCURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.Locate(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if errors.Is(err, domain.ErrMalformedResponse) || errors.Is(err, domain.ErrUnexpectedContentType) {
		t.Fatalf("transport error misclassified: %v", err)
	}
}
