// Package xlsx renders aggregated reports as Excel workbooks.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/academicworkflow/awap/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

// Render returns the workbook bytes as a string so the Renderer interface
// stays uniform across formats. Callers writing to disk should use the
// string verbatim.
func (r *Renderer) Render(data *types.ReportData) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeSummarySheet(f, data); err != nil {
		return "", err
	}
	if data.Security != nil {
		if err := r.writeChecksSheet(f, data.Security); err != nil {
			return "", err
		}
		if err := r.writeFindingsSheet(f, data.Security); err != nil {
			return "", err
		}
	}
	if data.Benchmark != nil {
		if err := r.writeBenchmarkSheet(f, data.Benchmark); err != nil {
			return "", err
		}
	}
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) writeSummarySheet(f *excelize.File, data *types.ReportData) error {
	const sheet = "Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	rows := [][]interface{}{
		{"Title", data.Title},
		{"Generated", data.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if data.Security != nil {
		rows = append(rows,
			[]interface{}{"Total Checks", len(data.Security.Checks)},
			[]interface{}{"Passed", data.Security.Passed()},
			[]interface{}{"Failed", data.Security.Failed()},
			[]interface{}{"Pass Rate", fmt.Sprintf("%.1f%%", data.Security.PassRate())},
			[]interface{}{"Total Findings", data.Security.TotalFindings()},
		)
	}
	if data.Benchmark != nil {
		rows = append(rows,
			[]interface{}{"Benchmarks", len(data.Benchmark.Results)},
			[]interface{}{"Regressions", len(data.Benchmark.Regressions)},
		)
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeChecksSheet(f *excelize.File, security *types.SecuritySummary) error {
	const sheet = "Checks"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Check", "Status", "Details"}}
	for _, check := range security.Checks {
		rows = append(rows, []interface{}{check.Name, check.Status, check.Details})
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeFindingsSheet(f *excelize.File, security *types.SecuritySummary) error {
	const sheet = "Findings"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Severity", "Finding"}}
	for _, section := range []struct {
		severity string
		findings []string
	}{
		{"CRITICAL", security.Critical},
		{"HIGH", security.High},
		{"MEDIUM", security.Medium},
		{"LOW", security.Low},
	} {
		for _, finding := range section.findings {
			rows = append(rows, []interface{}{section.severity, finding})
		}
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeBenchmarkSheet(f *excelize.File, benchmark *types.BenchmarkSummary) error {
	const sheet = "Benchmarks"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Benchmark", "Iterations", "ns/op", "B/op", "allocs/op"}}
	for _, result := range benchmark.Results {
		rows = append(rows, []interface{}{
			result.Name, result.Iterations, result.NsPerOp, result.BytesPerOp, result.AllocsPerOp,
		})
	}
	for name, ns := range benchmark.Integration {
		rows = append(rows, []interface{}{name, "", ns, "", ""})
	}
	if len(benchmark.Regressions) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Regression", "Baseline ns", "Current ns", "Change %"})
		for _, regression := range benchmark.Regressions {
			rows = append(rows, []interface{}{
				regression.Benchmark, regression.Baseline, regression.Current, regression.ChangePct,
			})
		}
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
