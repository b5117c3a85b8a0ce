package xlsx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/academicworkflow/awap/internal/report/types"
)

func TestRenderProducesReadableWorkbook(t *testing.T) {
	data := &types.ReportData{
		Title:       "Security Audit Report",
		GeneratedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Security: &types.SecuritySummary{
			High: []string{"SQL Injection on POST /api/v1/submit"},
			Low:  []string{"Missing X-Frame-Options header"},
			Checks: []types.CheckResult{
				{Name: "API Fuzzing", Status: "FAIL", Details: "Total requests: 96, findings: 2"},
			},
		},
	}

	out, err := NewRenderer().Render(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(strings.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Checks", "Findings"}, f.GetSheetList())

	checks, err := f.GetRows("Checks")
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, []string{"Check", "Status", "Details"}, checks[0])
	assert.Equal(t, "API Fuzzing", checks[1][0])

	findings, err := f.GetRows("Findings")
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.Equal(t, "HIGH", findings[1][0])
	assert.Equal(t, "LOW", findings[2][0])
}

func TestRenderBenchmarkWorkbook(t *testing.T) {
	data := &types.ReportData{
		Title:       "Benchmark Report",
		GeneratedAt: time.Now().UTC(),
		Benchmark: &types.BenchmarkSummary{
			Results: []types.BenchmarkResult{
				{Name: "BenchmarkUpload", Iterations: 1000, NsPerOp: 1500000, BytesPerOp: 2048, AllocsPerOp: 12},
			},
		},
	}

	out, err := NewRenderer().Render(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(strings.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Benchmarks")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BenchmarkUpload", rows[1][0])
}

func TestSupportedFormat(t *testing.T) {
	assert.Equal(t, types.ReportFormatXLSX, NewRenderer().SupportedFormat())
}
