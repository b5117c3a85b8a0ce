package fuzz

import "time"

// Severity ranks a finding. The ordering matters for report rendering and
// exit codes: critical and high findings fail a run.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists all severities from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Finding is a single classified observation. Findings are leads requiring
// manual triage, not verdicts: classification is substring-heuristic based
// and inherently approximate.
type Finding struct {
	Severity Severity `json:"severity"`
	Category string   `json:"type"`
	Endpoint string   `json:"endpoint"`
	Method   string   `json:"method"`
	Payload  string   `json:"data,omitempty"`
	Message  string   `json:"message"`
}

// Report is the output of a fuzzing run.
type Report struct {
	GeneratedAt   time.Time `json:"generated_at"`
	TotalRequests int       `json:"total_requests"`
	Findings      []Finding `json:"findings"`
}

// CountBySeverity groups finding counts for summaries.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// Failed reports whether the run produced critical or high findings.
func (r *Report) Failed() bool {
	counts := r.CountBySeverity()
	return counts[SeverityCritical] > 0 || counts[SeverityHigh] > 0
}
