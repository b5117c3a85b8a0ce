package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/academicworkflow/awap/internal/client"
)

func TestClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Client Suite")
}

func newTestClient(baseURL string) *client.Client {
	cfg := client.NewDefault()
	cfg.BaseURL = baseURL
	cfg.PollInterval = 10 * time.Millisecond
	cfg.MaxPollInterval = 50 * time.Millisecond
	cfg.WorkflowTimeout = 5 * time.Second
	return client.New(cfg)
}

func writeTempTMA(dir string) string {
	path := filepath.Join(dir, "essay.pdf")
	Expect(os.WriteFile(path, []byte("%PDF-1.4 test"), 0600)).To(Succeed())
	return path
}

var _ = Describe("workflow client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Upload", func() {
		It("posts the file as multipart and returns the tma id", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/v1/tma/upload"))
				Expect(r.Header.Get("X-Request-Id")).NotTo(BeEmpty())

				Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
				Expect(r.FormValue("student_id")).To(Equal("student001"))
				Expect(r.FormValue("rubric")).To(Equal("default"))
				_, header, err := r.FormFile("file")
				Expect(err).NotTo(HaveOccurred())
				Expect(header.Filename).To(Equal("essay.pdf"))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{"tma_id": "tma_123"})
			}))
			defer server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			tmaID, err := newTestClient(server.URL).Upload(ctx, path, "student001", "default")
			Expect(err).NotTo(HaveOccurred())
			Expect(tmaID).To(Equal("tma_123"))
		})

		It("fails with NotFoundError before any network call when the file is absent", func() {
			var called atomic.Bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called.Store(true)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Upload(ctx, "/no/such/file.pdf", "student001", "default")
			var notFound *client.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.Path).To(Equal("/no/such/file.pdf"))
			Expect(called.Load()).To(BeFalse())
		})

		It("fails with APIError carrying the status code on a non-2xx response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rubric unknown", http.StatusUnprocessableEntity)
			}))
			defer server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			_, err := newTestClient(server.URL).Upload(ctx, path, "student001", "bogus")
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})

		It("fails with ProtocolError when no tma id is returned", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{}`)
			}))
			defer server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			_, err := newTestClient(server.URL).Upload(ctx, path, "student001", "default")
			var protoErr *client.ProtocolError
			Expect(errors.As(err, &protoErr)).To(BeTrue())
			Expect(protoErr.Field).To(Equal("tma_id"))

			// ProtocolError is a remote-failure subtype.
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
		})

		It("fails with APIError on transport failure", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			_, err := newTestClient(server.URL).Upload(ctx, path, "student001", "default")
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(BeZero())
		})
	})

	Describe("Submit", func() {
		It("posts the rubric and returns a job id distinct from the tma id", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/v1/tma/tma_123/mark"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var body struct {
					Rubric       string `json:"rubric"`
					AutoFeedback bool   `json:"auto_feedback"`
				}
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body.Rubric).To(Equal("default"))
				Expect(body.AutoFeedback).To(BeTrue())

				_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job_456"})
			}))
			defer server.Close()

			jobID, err := newTestClient(server.URL).Submit(ctx, "tma_123", "default", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(jobID).To(Equal("job_456"))
			Expect(jobID).NotTo(Equal("tma_123"))
		})

		It("fails with ProtocolError when no job id is returned", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status":"accepted"}`)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Submit(ctx, "tma_123", "default", true)
			var protoErr *client.ProtocolError
			Expect(errors.As(err, &protoErr)).To(BeTrue())
			Expect(protoErr.Field).To(Equal("job_id"))
		})
	})

	Describe("PollOnce", func() {
		It("returns the current job snapshot", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v1/jobs/job_456"))
				fmt.Fprint(w, `{"status":"running"}`)
			}))
			defer server.Close()

			snapshot, err := newTestClient(server.URL).PollOnce(ctx, "job_456")
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.Status).To(Equal(client.StatusRunning))
			Expect(snapshot.Status.IsTerminal()).To(BeFalse())
		})
	})

	Describe("AwaitCompletion", func() {
		It("returns completed once the job reaches a terminal status", func() {
			var polls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if polls.Add(1) < 3 {
					fmt.Fprint(w, `{"status":"pending"}`)
					return
				}
				fmt.Fprint(w, `{"status":"completed"}`)
			}))
			defer server.Close()

			status, err := newTestClient(server.URL).AwaitCompletion(ctx, "job_456", client.PollOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(client.StatusCompleted))
			Expect(polls.Load()).To(BeNumerically(">=", 3))
		})

		It("surfaces the remote error message verbatim when the job fails", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status":"failed","error":"rubric weights do not sum to 100"}`)
			}))
			defer server.Close()

			status, err := newTestClient(server.URL).AwaitCompletion(ctx, "job_456", client.PollOptions{})
			Expect(status).To(Equal(client.StatusFailed))
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Message).To(ContainSubstring("rubric weights do not sum to 100"))
		})

		It("times out within the deadline, not a full poll interval", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status":"pending"}`)
			}))
			defer server.Close()

			start := time.Now()
			_, err := newTestClient(server.URL).AwaitCompletion(ctx, "job_456", client.PollOptions{
				Interval: 5 * time.Second,
				Timeout:  100 * time.Millisecond,
			})
			elapsed := time.Since(start)

			var timeoutErr *client.TimeoutError
			Expect(errors.As(err, &timeoutErr)).To(BeTrue())
			Expect(elapsed).To(BeNumerically("<", time.Second))
		})

		It("aborts early when the caller cancels the context", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status":"pending"}`)
			}))
			defer server.Close()

			cancelCtx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()

			_, err := newTestClient(server.URL).AwaitCompletion(cancelCtx, "job_456", client.PollOptions{
				Interval: time.Second,
				Timeout:  time.Minute,
			})
			Expect(err).To(HaveOccurred())
			var timeoutErr *client.TimeoutError
			Expect(errors.As(err, &timeoutErr)).To(BeFalse())
		})
	})

	Describe("FetchResult", func() {
		result := map[string]any{
			"tma_id":     "tma_123",
			"student_id": "student001",
			"score":      85,
			"grade":      "B+",
			"feedback": map[string]any{
				"summary":               "Good work overall.",
				"strengths":             []string{"Clear thesis statement"},
				"areas_for_improvement": []string{"Citation formatting"},
				"detailed_comments":     []string{},
			},
			"marked_at": "2026-08-30T10:00:00Z",
		}

		It("decodes the marking result", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v1/tma/tma_123/results"))
				_ = json.NewEncoder(w).Encode(result)
			}))
			defer server.Close()

			res, err := newTestClient(server.URL).FetchResult(ctx, "tma_123")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Score).To(Equal(85.0))
			Expect(res.Grade).To(Equal("B+"))
			Expect(res.Feedback.Strengths).To(ConsistOf("Clear thesis statement"))
		})

		It("is idempotent for a completed submission", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(result)
			}))
			defer server.Close()

			c := newTestClient(server.URL)
			first, err := c.FetchResult(ctx, "tma_123")
			Expect(err).NotTo(HaveOccurred())
			second, err := c.FetchResult(ctx, "tma_123")
			Expect(err).NotTo(HaveOccurred())

			firstJSON, err := json.Marshal(first)
			Expect(err).NotTo(HaveOccurred())
			secondJSON, err := json.Marshal(second)
			Expect(err).NotTo(HaveOccurred())
			Expect(firstJSON).To(Equal(secondJSON))
		})
	})

	Describe("RunWorkflow", func() {
		newWorkflowServer := func() *httptest.Server {
			// Go 1.22-style "METHOD /path" mux patterns rewritten for the
			// go1.21 toolchain; routing behavior is unchanged.
			withMethod := func(method string, h http.HandlerFunc) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					if r.Method != method {
						http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
						return
					}
					h(w, r)
				}
			}
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/tma/upload", withMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"tma_id": "tma_123"})
			}))
			mux.HandleFunc("/api/v1/tma/tma_123/mark", withMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job_456"})
			}))
			mux.HandleFunc("/api/v1/jobs/job_456", withMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status":"completed"}`)
			}))
			mux.HandleFunc("/api/v1/tma/tma_123/results", withMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"tma_id":"tma_123","student_id":"student001","score":85,"grade":"B+","feedback":{"summary":"ok","strengths":[],"areas_for_improvement":[],"detailed_comments":[]},"marked_at":"2026-08-30T10:00:00Z"}`)
			}))
			return httptest.NewServer(mux)
		}

		It("returns a complete result when waiting", func() {
			server := newWorkflowServer()
			defer server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			outcome, err := newTestClient(server.URL).RunWorkflow(ctx, client.WorkflowRequest{
				FilePath:     path,
				StudentID:    "student001",
				Rubric:       "default",
				AutoFeedback: true,
				Wait:         true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Pending).To(BeNil())
			Expect(outcome.Result).NotTo(BeNil())
			Expect(outcome.Result.Grade).To(Equal("B+"))
		})

		It("returns the pending handles when not waiting", func() {
			server := newWorkflowServer()
			defer server.Close()

			path := writeTempTMA(GinkgoT().TempDir())
			outcome, err := newTestClient(server.URL).RunWorkflow(ctx, client.WorkflowRequest{
				FilePath:  path,
				StudentID: "student001",
				Rubric:    "default",
				Wait:      false,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Result).To(BeNil())
			Expect(outcome.Pending).NotTo(BeNil())
			Expect(outcome.Pending.TMAID).To(Equal("tma_123"))
			Expect(outcome.Pending.JobID).To(Equal("job_456"))
		})
	})
})
