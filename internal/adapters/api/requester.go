package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// RequestRecorder receives per-call upstream metrics
type RequestRecorder interface {
	RecordAPIRequest(upstream, endpoint string, statusCode int, duration float64)
	RecordRateLimitWait(upstream, endpoint string, duration float64)
}

// maximum response body kept on an UpstreamError
const maxErrorBody = 2048

// requester performs exactly one HTTP call per invocation. It never retries
// and never caches; both are layered above it.
type requester struct {
	upstream    string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	recorder    RequestRecorder
	clock       shared.Clock
}

type requesterOptions struct {
	upstream  string
	baseURL   string
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
	recorder  RequestRecorder
	clock     shared.Clock
}

func newRequester(opts requesterOptions) *requester {
	if opts.clock == nil {
		opts.clock = shared.NewRealClock()
	}
	return &requester{
		upstream:    opts.upstream,
		baseURL:     strings.TrimRight(opts.baseURL, "/"),
		httpClient:  &http.Client{Timeout: opts.timeout},
		rateLimiter: opts.limiter,
		userAgent:   opts.userAgent,
		recorder:    opts.recorder,
		clock:       opts.clock,
	}
}

type call struct {
	method string
	path   string
	query  url.Values
	token  string // sent as a Bearer token when set
	body   interface{}
}

// do executes the call and decodes a 2xx JSON body into result
func (r *requester) do(ctx context.Context, c call, result interface{}) error {
	if r.rateLimiter != nil {
		waitStart := r.clock.Now()
		if err := r.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		if r.recorder != nil {
			r.recorder.RecordRateLimitWait(r.upstream, c.path, r.clock.Now().Sub(waitStart).Seconds())
		}
	}

	endpoint := r.baseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var reqBody io.Reader
	if c.body != nil {
		jsonData, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	start := r.clock.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", r.upstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if r.recorder != nil {
		r.recorder.RecordAPIRequest(r.upstream, c.path, resp.StatusCode, r.clock.Now().Sub(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := string(respBody)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &UpstreamError{Upstream: r.upstream, StatusCode: resp.StatusCode, Body: body}
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.upstream, err)
	}
	return nil
}
