// Package report aggregates diagnostic artifacts from a directory into
// summaries and renders them through pluggable renderers. Aggregation is a
// pure glob/parse/merge pass: unreadable or malformed files are skipped, the
// rest still contribute.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/academicworkflow/awap/internal/fuzz"
	"github.com/academicworkflow/awap/internal/report/types"
)

// textArtifacts maps file name patterns to the check each represents.
var textArtifacts = []struct {
	Pattern string
	Name    string
}{
	{"license_*.txt", "License Check"},
	{"secrets_*.txt", "Secret Scan"},
	{"sql_injection_report.txt", "SQL Injection Test"},
	{"xss_test_report.txt", "XSS Test"},
	{"auth_bypass_report.txt", "Auth Bypass Test"},
	{"container_escape_report.txt", "Container Escape Test"},
	{"privilege_escalation_report.txt", "Privilege Escalation Test"},
	{"network_isolation_report.txt", "Network Isolation Test"},
	{"filesystem_access_report.txt", "Filesystem Access Test"},
	{"anonymization_verification.txt", "Anonymization Verification"},
	{"audit_trail_report.txt", "Audit Trail Verification"},
}

type dependencyAudit struct {
	Summary struct {
		Critical int `json:"critical"`
		High     int `json:"high"`
		Total    int `json:"total"`
	} `json:"summary"`
}

// SecurityAggregator collects security artifacts from a report directory.
type SecurityAggregator struct {
	dir    string
	logger *zap.Logger
}

func NewSecurityAggregator(dir string, logger *zap.Logger) *SecurityAggregator {
	return &SecurityAggregator{dir: dir, logger: logger}
}

// Load globs the directory for every known artifact and merges it into a
// summary.
func (a *SecurityAggregator) Load() *types.SecuritySummary {
	summary := &types.SecuritySummary{}
	a.loadDependencyAudits(summary)
	a.loadTextArtifacts(summary)
	a.loadFuzzReport(summary)
	return summary
}

// Data wraps the summary for rendering.
func (a *SecurityAggregator) Data() *types.ReportData {
	return &types.ReportData{
		Title:       "Security Audit Report",
		GeneratedAt: time.Now().UTC(),
		Security:    a.Load(),
	}
}

func (a *SecurityAggregator) loadDependencyAudits(summary *types.SecuritySummary) {
	matches, err := filepath.Glob(filepath.Join(a.dir, "dependency-audit", "audit_*.json"))
	if err != nil {
		return
	}
	for _, path := range matches {
		contents, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable audit", zap.String("path", path), zap.Error(err))
			continue
		}
		var audit dependencyAudit
		if err := json.Unmarshal(contents, &audit); err != nil {
			a.logger.Warn("skipping malformed audit", zap.String("path", path), zap.Error(err))
			continue
		}

		for i := 0; i < audit.Summary.Critical; i++ {
			summary.Critical = append(summary.Critical, "Dependency vulnerability (critical)")
		}
		for i := 0; i < audit.Summary.High; i++ {
			summary.High = append(summary.High, "Dependency vulnerability (high)")
		}

		status := "PASS"
		if audit.Summary.Total > 0 {
			status = "FAIL"
		}
		summary.Checks = append(summary.Checks, types.CheckResult{
			Name:    "Dependency Audit",
			Status:  status,
			Details: fmt.Sprintf("Total vulnerabilities: %d", audit.Summary.Total),
		})
	}
}

func (a *SecurityAggregator) loadTextArtifacts(summary *types.SecuritySummary) {
	for _, artifact := range textArtifacts {
		matches, err := filepath.Glob(filepath.Join(a.dir, artifact.Pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			contents, err := os.ReadFile(path)
			if err != nil {
				a.logger.Warn("skipping unreadable artifact", zap.String("path", path), zap.Error(err))
				continue
			}
			content := string(contents)

			status := "PASS"
			if strings.Contains(content, "FAIL") || strings.Contains(content, "VIOLATION") || strings.Contains(content, "VULNERABLE") {
				status = "FAIL"
				violations := strings.Count(content, "[VIOLATION]") + strings.Count(content, "[VULNERABLE]")
				if violations > 0 {
					message := fmt.Sprintf("%s: %d issues", artifact.Name, violations)
					switch {
					case strings.Contains(content, "CRITICAL"):
						summary.Critical = append(summary.Critical, message)
					case strings.Contains(content, "HIGH"):
						summary.High = append(summary.High, message)
					default:
						summary.Medium = append(summary.Medium, message)
					}
				}
			}

			summary.Checks = append(summary.Checks, types.CheckResult{
				Name:    artifact.Name,
				Status:  status,
				Details: fmt.Sprintf("Report: %s", filepath.Base(path)),
			})
		}
	}
}

func (a *SecurityAggregator) loadFuzzReport(summary *types.SecuritySummary) {
	path := filepath.Join(a.dir, "api_fuzz_report.json")
	contents, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fuzzReport fuzz.Report
	if err := json.Unmarshal(contents, &fuzzReport); err != nil {
		a.logger.Warn("skipping malformed fuzz report", zap.String("path", path), zap.Error(err))
		return
	}

	for _, finding := range fuzzReport.Findings {
		message := fmt.Sprintf("API Fuzzing: %s on %s %s - %s", finding.Category, finding.Method, finding.Endpoint, finding.Message)
		switch finding.Severity {
		case fuzz.SeverityCritical:
			summary.Critical = append(summary.Critical, message)
		case fuzz.SeverityHigh:
			summary.High = append(summary.High, message)
		case fuzz.SeverityMedium:
			summary.Medium = append(summary.Medium, message)
		default:
			summary.Low = append(summary.Low, message)
		}
	}

	status := "PASS"
	if fuzzReport.Failed() {
		status = "FAIL"
	}
	summary.Checks = append(summary.Checks, types.CheckResult{
		Name:    "API Fuzzing",
		Status:  status,
		Details: fmt.Sprintf("Total requests: %d, findings: %d", fuzzReport.TotalRequests, len(fuzzReport.Findings)),
	})
}
