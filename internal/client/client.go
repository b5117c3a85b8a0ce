// Package client is the Go SDK for the Academic Workflow marking API. It
// drives the upload/submit/poll/fetch workflow and exposes each step
// independently. Every operation performs exactly one HTTP exchange and no
// failure is retried automatically.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jitterbug "github.com/lthibault/jitterbug/v2"
)

const requestIDHeader = "X-Request-Id"

// Client is an HTTP client for the marking service.
type Client struct {
	config     *Config
	httpClient *http.Client
}

func New(config *Config) *Client {
	return &Client{
		config:     config,
		httpClient: NewHTTPClientFromConfig(config),
	}
}

// NewFromConfigFile returns a new client using the config read from the
// given file.
func NewFromConfigFile(filename string) (*Client, error) {
	config, err := ParseConfigFile(filename)
	if err != nil {
		return nil, err
	}
	return New(config), nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("reading response body: %v", err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Message: string(respBody), StatusCode: resp.StatusCode}
	}

	return respBody, nil
}

// Upload sends a TMA file to the service and returns the assigned TMA id.
// It fails with *NotFoundError before any network exchange when the file
// does not exist.
func (c *Client) Upload(ctx context.Context, filePath, studentID, rubric string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &NotFoundError{Path: filePath}
		}
		return "", fmt.Errorf("opening tma file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copying file into multipart: %w", err)
	}
	if err := mw.WriteField("student_id", studentID); err != nil {
		return "", fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.WriteField("rubric", rubric); err != nil {
		return "", fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/api/v1/tma/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var upload uploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return "", &APIError{Message: fmt.Sprintf("decoding upload response: %v", err), Err: err}
	}
	if upload.TMAID == "" {
		return "", &ProtocolError{Field: "tma_id"}
	}

	return upload.TMAID, nil
}

// Submit requests marking of an uploaded TMA and returns the job id to poll.
func (c *Client) Submit(ctx context.Context, tmaID, rubric string, autoFeedback bool) (string, error) {
	body, err := json.Marshal(markRequest{Rubric: rubric, AutoFeedback: autoFeedback})
	if err != nil {
		return "", fmt.Errorf("marshalling mark request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/tma/%s/mark", tmaID), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var mark markResponse
	if err := json.Unmarshal(respBody, &mark); err != nil {
		return "", &APIError{Message: fmt.Sprintf("decoding mark response: %v", err), Err: err}
	}
	if mark.JobID == "" {
		return "", &ProtocolError{Field: "job_id"}
	}

	return mark.JobID, nil
}

// PollOnce performs a single non-blocking status check.
func (c *Client) PollOnce(ctx context.Context, jobID string) (JobSnapshot, error) {
	respBody, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s", jobID), "", nil)
	if err != nil {
		return JobSnapshot{}, err
	}

	var status jobStatusResponse
	if err := json.Unmarshal(respBody, &status); err != nil {
		return JobSnapshot{}, &APIError{Message: fmt.Sprintf("decoding job status: %v", err), Err: err}
	}
	if status.Status == "" {
		return JobSnapshot{}, &ProtocolError{Field: "status"}
	}

	return JobSnapshot{JobID: jobID, Status: JobStatus(status.Status), Error: status.Error}, nil
}

// PollOptions tunes AwaitCompletion. Zero fields fall back to the client
// config.
type PollOptions struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Timeout     time.Duration
}

// AwaitCompletion polls the job until a terminal status is observed or the
// deadline expires, whichever comes first. The first poll happens
// immediately; subsequent polls back off exponentially with jitter up to
// MaxInterval. The deadline always wins over the next poll tick. Cancelling
// ctx aborts the loop early.
//
// It returns *TimeoutError when the deadline expires, and an *APIError
// carrying the remote-supplied message verbatim when the job fails.
func (c *Client) AwaitCompletion(ctx context.Context, jobID string, opts PollOptions) (JobStatus, error) {
	interval := opts.Interval
	if interval == 0 {
		interval = c.config.PollInterval
	}
	maxInterval := opts.MaxInterval
	if maxInterval == 0 {
		maxInterval = c.config.MaxPollInterval
	}
	if maxInterval < interval {
		maxInterval = interval
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.config.WorkflowTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	jitter := &jitterbug.Norm{Stdev: interval / 10}

	for {
		snapshot, err := c.PollOnce(ctx, jobID)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", &TimeoutError{Timeout: timeout}
			}
			return "", err
		}

		switch snapshot.Status {
		case StatusCompleted:
			return StatusCompleted, nil
		case StatusFailed:
			message := snapshot.Error
			if message == "" {
				message = "unknown error"
			}
			return StatusFailed, &APIError{Message: fmt.Sprintf("job failed: %s", message)}
		}

		timer := time.NewTimer(jitter.Jitter(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", &TimeoutError{Timeout: timeout}
			}
			return "", ctx.Err()
		case <-timer.C:
		}

		interval *= 2
		if interval > maxInterval {
			interval = maxInterval
		}
	}
}

// FetchResult retrieves the marking result of a completed TMA. It does not
// wait; callers must have observed a terminal completed status first.
func (c *Client) FetchResult(ctx context.Context, tmaID string) (*MarkingResult, error) {
	respBody, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/tma/%s/results", tmaID), "", nil)
	if err != nil {
		return nil, err
	}
	if len(respBody) == 0 {
		return nil, ErrEmptyResponse
	}

	var result MarkingResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding marking result: %v", err), Err: err}
	}

	return &result, nil
}

// Health checks connectivity to the service.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	return err
}

// RunWorkflow composes upload, submit, poll and fetch behind one call. When
// req.Wait is false the outcome carries the pending handles instead of a
// result; callers resume later with AwaitCompletion and FetchResult.
func (c *Client) RunWorkflow(ctx context.Context, req WorkflowRequest) (*WorkflowOutcome, error) {
	tmaID, err := c.Upload(ctx, req.FilePath, req.StudentID, req.Rubric)
	if err != nil {
		return nil, err
	}

	jobID, err := c.Submit(ctx, tmaID, req.Rubric, req.AutoFeedback)
	if err != nil {
		return nil, err
	}

	if !req.Wait {
		return &WorkflowOutcome{Pending: &PendingMarking{TMAID: tmaID, JobID: jobID}}, nil
	}

	if _, err := c.AwaitCompletion(ctx, jobID, PollOptions{}); err != nil {
		return nil, err
	}

	result, err := c.FetchResult(ctx, tmaID)
	if err != nil {
		return nil, err
	}

	return &WorkflowOutcome{Result: result}, nil
}
