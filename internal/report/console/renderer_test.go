package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academicworkflow/awap/internal/report/types"
)

func TestRenderSecurityReport(t *testing.T) {
	data := &types.ReportData{
		Title:       "Security Audit Report",
		GeneratedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Security: &types.SecuritySummary{
			High: []string{"SQL Injection on POST /api/v1/submit"},
			Checks: []types.CheckResult{
				{Name: "API Fuzzing", Status: "FAIL", Details: "Total requests: 96, findings: 1"},
			},
		},
	}

	out, err := NewRenderer().Render(data)
	require.NoError(t, err)

	assert.Contains(t, out, "SECURITY AUDIT REPORT")
	assert.Contains(t, out, "Generated: 2026-03-14 12:00:00")
	assert.Contains(t, out, "High Findings: 1")
	assert.Contains(t, out, "Pass Rate: 0.0%")
	assert.Contains(t, out, "API Fuzzing")
}

func TestRenderBenchmarkReport(t *testing.T) {
	data := &types.ReportData{
		Title:       "Benchmark Report",
		GeneratedAt: time.Now().UTC(),
		Benchmark: &types.BenchmarkSummary{
			Results: []types.BenchmarkResult{
				{Name: "BenchmarkSubmit", Iterations: 50000, NsPerOp: 25000},
			},
		},
	}

	out, err := NewRenderer().Render(data)
	require.NoError(t, err)

	assert.Contains(t, out, "BenchmarkSubmit")
	assert.Contains(t, out, "25.00 µs")
	assert.Contains(t, out, "No regressions detected")
}

func TestSupportedFormat(t *testing.T) {
	assert.Equal(t, types.ReportFormatConsole, NewRenderer().SupportedFormat())
}
