// Package types holds the shared shapes of the report pipeline: aggregated
// summaries on one side, renderers on the other.
package types

import (
	"fmt"
	"time"
)

type ReportFormat string

const (
	ReportFormatHTML     ReportFormat = "html"
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatJSON     ReportFormat = "json"
	ReportFormatConsole  ReportFormat = "console"
	ReportFormatXLSX     ReportFormat = "xlsx"
)

// Formats lists every renderable format.
func Formats() []string {
	return []string{
		string(ReportFormatHTML),
		string(ReportFormatMarkdown),
		string(ReportFormatJSON),
		string(ReportFormatConsole),
		string(ReportFormatXLSX),
	}
}

// Renderer turns aggregated report data into one output format.
type Renderer interface {
	Render(data *ReportData) (string, error)
	SupportedFormat() ReportFormat
}

// ReportData is the merged input of every renderer. Exactly one of Security
// or Benchmark is set, depending on the report kind.
type ReportData struct {
	Title       string            `json:"title"`
	GeneratedAt time.Time         `json:"generated_at"`
	Security    *SecuritySummary  `json:"security,omitempty"`
	Benchmark   *BenchmarkSummary `json:"benchmark,omitempty"`
}

// CheckResult is the pass/fail outcome of one aggregated security check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // PASS or FAIL
	Details string `json:"details"`
}

// SecuritySummary merges every security artifact found in the input
// directory.
type SecuritySummary struct {
	Critical []string      `json:"critical"`
	High     []string      `json:"high"`
	Medium   []string      `json:"medium"`
	Low      []string      `json:"low"`
	Checks   []CheckResult `json:"checks"`
}

func (s *SecuritySummary) TotalFindings() int {
	return len(s.Critical) + len(s.High) + len(s.Medium) + len(s.Low)
}

func (s *SecuritySummary) Passed() int {
	passed := 0
	for _, check := range s.Checks {
		if check.Status == "PASS" {
			passed++
		}
	}
	return passed
}

func (s *SecuritySummary) Failed() int {
	return len(s.Checks) - s.Passed()
}

// PassRate is the percentage of passing checks, 0 when no checks ran.
func (s *SecuritySummary) PassRate() float64 {
	if len(s.Checks) == 0 {
		return 0
	}
	return float64(s.Passed()) / float64(len(s.Checks)) * 100
}

// ExitCode maps the summary to the process exit convention: 1 when critical
// or high findings exist, 2 when any other findings exist, 0 when clean.
func (s *SecuritySummary) ExitCode() int {
	if len(s.Critical) > 0 || len(s.High) > 0 {
		return 1
	}
	if s.TotalFindings() > 0 {
		return 2
	}
	return 0
}

// BenchmarkResult is one parsed benchmark measurement. NsPerOp is the only
// field every source provides; allocation columns are present for Go bench
// output only.
type BenchmarkResult struct {
	Name        string  `json:"name"`
	Iterations  int     `json:"iterations,omitempty"`
	NsPerOp     float64 `json:"ns_per_op"`
	BytesPerOp  float64 `json:"bytes_per_op,omitempty"`
	AllocsPerOp float64 `json:"allocs_per_op,omitempty"`
}

// Regression is a benchmark whose timing worsened past the threshold
// relative to the baseline.
type Regression struct {
	Benchmark string  `json:"benchmark"`
	Baseline  float64 `json:"baseline_ns"`
	Current   float64 `json:"current_ns"`
	ChangePct float64 `json:"change_pct"`
}

// BenchmarkSummary merges parsed benchmark artifacts and the optional
// baseline comparison.
type BenchmarkSummary struct {
	Results     []BenchmarkResult  `json:"results"`
	Integration map[string]float64 `json:"integration,omitempty"`
	Regressions []Regression       `json:"regressions,omitempty"`
}

// FormatDuration renders a nanosecond value with an appropriate unit.
func FormatDuration(ns float64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%.2f ns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	default:
		return fmt.Sprintf("%.2f s", ns/1_000_000_000)
	}
}
