package gmlc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/pkg/metrics"
)

// Client implements ports.GMLCClient over the GMLC's HTTP JSON endpoint.
// Every Locate call is a single attempt; retries are left to the caller's
// policy (there is none — one client-visible operation, one GMLC attempt).
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
}

// New creates a GMLC client. timeout bounds the whole round-trip and its
// expiry is reported as a context deadline error.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		timeout: timeout,
	}
}

// Locate posts one location query and normalizes the reply.
func (c *Client) Locate(ctx context.Context, req *domain.GMLCRequest) (*domain.MediationOutcome, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode GMLC request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build GMLC request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.GMLCRequestDuration.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GMLCRequests.WithLabelValues(req.Operation, "transport_error").Inc()
		if ctx.Err() != nil {
			// Surface the deadline so the orchestrator can set a timeout cause.
			return nil, fmt.Errorf("GMLC request: %w", ctx.Err())
		}
		return nil, fmt.Errorf("GMLC request: %w", err)
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		metrics.GMLCRequests.WithLabelValues(req.Operation, "bad_content_type").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrUnexpectedContentType, mediaType)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GMLCRequests.WithLabelValues(req.Operation, "transport_error").Inc()
		return nil, fmt.Errorf("read GMLC response: %w", err)
	}

	outcome, err := Parse(raw)
	if err != nil {
		metrics.GMLCRequests.WithLabelValues(req.Operation, "malformed").Inc()
		return nil, err
	}

	metrics.GMLCRequests.WithLabelValues(req.Operation, string(outcome.Status)).Inc()
	return outcome, nil
}
