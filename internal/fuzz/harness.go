// Package fuzz is a diagnostic harness that exercises the marking API with
// hostile payloads and classifies responses heuristically. Its findings are
// leads for manual triage, never a pass/fail verdict on the service.
package fuzz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoints is the fixed endpoint list the harness iterates.
var DefaultEndpoints = []string{
	"/api/v1/submit",
	"/api/v1/grade",
	"/api/v1/feedback",
	"/api/v1/student",
	"/api/v1/course",
	"/api/v1/assignment",
}

var verbs = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Config tunes a fuzzing run.
type Config struct {
	BaseURL string
	// Timeout bounds each request; a timed-out request is itself a finding.
	Timeout time.Duration
	// MaxRequests caps the run; 0 means the full endpoint x verb x strategy grid.
	MaxRequests int
	// Endpoints overrides DefaultEndpoints when non-empty.
	Endpoints []string
	// Seed makes payload generation reproducible; 0 seeds from the clock.
	Seed int64
}

// Harness issues one request per endpoint/verb/strategy combination and
// collects classified findings.
type Harness struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHarness(config Config, logger *zap.Logger) *Harness {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if len(config.Endpoints) == 0 {
		config.Endpoints = DefaultEndpoints
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return &Harness{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// Run executes the fuzzing grid. It stops early when ctx is cancelled or
// MaxRequests is reached; the partial report is still returned.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	rng := rand.New(rand.NewSource(h.config.Seed))
	report := &Report{GeneratedAt: time.Now().UTC()}

	seq := 0
	for _, endpoint := range h.config.Endpoints {
		for _, verb := range verbs {
			for _, s := range strategies() {
				if err := ctx.Err(); err != nil {
					return report, err
				}
				if h.config.MaxRequests > 0 && report.TotalRequests >= h.config.MaxRequests {
					return report, nil
				}

				payload := buildPayload(rng, s, seq)
				h.fuzzOne(ctx, report, endpoint, verb, payload)
			}
			seq++
		}
	}

	return report, nil
}

func (h *Harness) fuzzOne(ctx context.Context, report *Report, endpoint, verb string, payload map[string]any) {
	report.TotalRequests++
	firstRequest := report.TotalRequests == 1

	payloadJSON, _ := json.Marshal(payload)
	payloadDesc := truncate(string(payloadJSON), 100)

	req, err := h.buildRequest(ctx, endpoint, verb, payload)
	if err != nil {
		h.logger.Warn("skipping combination", zap.String("endpoint", endpoint), zap.String("method", verb), zap.Error(err))
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if urlErr, ok := err.(*url.Error); ok && urlErr.Timeout() {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityMedium,
				Category: "Timeout",
				Endpoint: endpoint,
				Method:   verb,
				Payload:  payloadDesc,
				Message:  "request timed out - possible DoS vulnerability",
			})
			return
		}
		// Connection-level failures are skipped: the server may simply be down.
		h.logger.Debug("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body := readBounded(resp)
	findings := classify(endpoint, verb, payload, payloadDesc, resp, body, firstRequest)
	report.Findings = append(report.Findings, findings...)

	h.logger.Debug("fuzzed",
		zap.String("endpoint", endpoint),
		zap.String("method", verb),
		zap.Int("status", resp.StatusCode),
		zap.Int("findings", len(findings)))
}

func (h *Harness) buildRequest(ctx context.Context, endpoint, verb string, payload map[string]any) (*http.Request, error) {
	target := h.config.BaseURL + endpoint

	switch verb {
	case http.MethodGet:
		req, err := http.NewRequestWithContext(ctx, verb, target, nil)
		if err != nil {
			return nil, err
		}
		query := req.URL.Query()
		for key, value := range payload {
			query.Set(key, fmt.Sprint(value))
		}
		req.URL.RawQuery = query.Encode()
		return req, nil
	case http.MethodDelete:
		return http.NewRequestWithContext(ctx, verb, target, nil)
	default:
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, verb, target, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}

const maxBodyBytes = 1 << 20

func readBounded(resp *http.Response) string {
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(http.MaxBytesReader(nil, resp.Body, maxBodyBytes))
	return buf.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// WriteReport serializes the report as JSON for the report aggregator.
func WriteReport(report *Report, path string) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling fuzz report: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("writing fuzz report: %w", err)
	}
	return nil
}
