// Package console renders aggregated reports for terminal output.
package console

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/academicworkflow/awap/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatConsole
}

func (r *Renderer) Render(data *types.ReportData) (string, error) {
	var out bytes.Buffer

	divider := strings.Repeat("=", 60)
	fmt.Fprintln(&out, divider)
	fmt.Fprintln(&out, strings.ToUpper(data.Title))
	fmt.Fprintln(&out, divider)
	fmt.Fprintf(&out, "Generated: %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05"))

	if data.Security != nil {
		r.renderSecurity(&out, data.Security)
	}
	if data.Benchmark != nil {
		r.renderBenchmark(&out, data.Benchmark)
	}

	fmt.Fprintln(&out, divider)
	return out.String(), nil
}

func (r *Renderer) renderSecurity(out *bytes.Buffer, security *types.SecuritySummary) {
	fmt.Fprintf(out, "Total Checks: %d\n", len(security.Checks))
	fmt.Fprintf(out, "Passed: %d\n", security.Passed())
	fmt.Fprintf(out, "Failed: %d\n", security.Failed())
	fmt.Fprintf(out, "Pass Rate: %.1f%%\n\n", security.PassRate())

	fmt.Fprintf(out, "Critical Findings: %d\n", len(security.Critical))
	fmt.Fprintf(out, "High Findings: %d\n", len(security.High))
	fmt.Fprintf(out, "Medium Findings: %d\n", len(security.Medium))
	fmt.Fprintf(out, "Low Findings: %d\n", len(security.Low))
	fmt.Fprintf(out, "Total Findings: %d\n\n", security.TotalFindings())

	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAILS")
	for _, check := range security.Checks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", check.Name, check.Status, check.Details)
	}
	_ = w.Flush()
}

func (r *Renderer) renderBenchmark(out *bytes.Buffer, benchmark *types.BenchmarkSummary) {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "BENCHMARK\tITERATIONS\tTIME")
	for _, result := range benchmark.Results {
		fmt.Fprintf(w, "%s\t%d\t%s\n", result.Name, result.Iterations, types.FormatDuration(result.NsPerOp))
	}
	for name, ns := range benchmark.Integration {
		fmt.Fprintf(w, "%s\t-\t%s\n", name, types.FormatDuration(ns))
	}
	_ = w.Flush()

	if len(benchmark.Regressions) == 0 {
		fmt.Fprintln(out, "\nNo regressions detected")
		return
	}
	fmt.Fprintf(out, "\n%d regression(s) detected:\n", len(benchmark.Regressions))
	for _, regression := range benchmark.Regressions {
		fmt.Fprintf(out, "  %s: %s -> %s (+%.1f%%)\n",
			regression.Benchmark,
			types.FormatDuration(regression.Baseline),
			types.FormatDuration(regression.Current),
			regression.ChangePct)
	}
}
