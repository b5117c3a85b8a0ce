// Package markdown renders aggregated reports as Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/academicworkflow/awap/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatMarkdown
}

func (r *Renderer) Render(data *types.ReportData) (string, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", data.Title)
	fmt.Fprintf(&md, "**Generated:** %s\n\n", data.GeneratedAt.Format("2006-01-02 15:04:05"))

	if data.Security != nil {
		r.renderSecurity(&md, data.Security)
	}
	if data.Benchmark != nil {
		r.renderBenchmark(&md, data.Benchmark)
	}

	return md.String(), nil
}

func (r *Renderer) renderSecurity(md *strings.Builder, security *types.SecuritySummary) {
	md.WriteString("## Summary\n\n")
	fmt.Fprintf(md, "- Total checks: **%d**\n", len(security.Checks))
	fmt.Fprintf(md, "- Passed: **%d**\n", security.Passed())
	fmt.Fprintf(md, "- Failed: **%d**\n", security.Failed())
	fmt.Fprintf(md, "- Pass rate: **%.1f%%**\n", security.PassRate())
	fmt.Fprintf(md, "- Total findings: **%d**\n\n", security.TotalFindings())

	md.WriteString("## Check Results\n\n")
	md.WriteString("| Check | Status | Details |\n|-------|--------|--------|\n")
	for _, check := range security.Checks {
		fmt.Fprintf(md, "| %s | %s | %s |\n", check.Name, check.Status, check.Details)
	}
	md.WriteString("\n")

	sections := []struct {
		Title    string
		Messages []string
	}{
		{"Critical", security.Critical},
		{"High", security.High},
		{"Medium", security.Medium},
		{"Low", security.Low},
	}
	md.WriteString("## Findings\n\n")
	total := 0
	for _, section := range sections {
		if len(section.Messages) == 0 {
			continue
		}
		total += len(section.Messages)
		fmt.Fprintf(md, "### %s (%d)\n\n", section.Title, len(section.Messages))
		for _, message := range section.Messages {
			fmt.Fprintf(md, "- %s\n", message)
		}
		md.WriteString("\n")
	}
	if total == 0 {
		md.WriteString("No findings.\n\n")
	}
}

func (r *Renderer) renderBenchmark(md *strings.Builder, benchmark *types.BenchmarkSummary) {
	md.WriteString("## Results\n\n")
	if len(benchmark.Results) > 0 {
		md.WriteString("| Benchmark | Iterations | Time | Bytes/op | Allocs/op |\n")
		md.WriteString("|-----------|-----------:|-----:|---------:|----------:|\n")
		for _, result := range benchmark.Results {
			fmt.Fprintf(md, "| %s | %d | `%s` | %.0f | %.0f |\n",
				result.Name, result.Iterations, types.FormatDuration(result.NsPerOp),
				result.BytesPerOp, result.AllocsPerOp)
		}
		md.WriteString("\n")
	}

	if len(benchmark.Integration) > 0 {
		md.WriteString("## Integration\n\n| Benchmark | Time |\n|-----------|-----:|\n")
		for name, ns := range benchmark.Integration {
			fmt.Fprintf(md, "| %s | `%s` |\n", name, types.FormatDuration(ns))
		}
		md.WriteString("\n")
	}

	md.WriteString("## Regression Analysis\n\n")
	if len(benchmark.Regressions) == 0 {
		md.WriteString("No performance regressions detected\n")
		return
	}
	fmt.Fprintf(md, "%d regression(s) detected:\n\n", len(benchmark.Regressions))
	md.WriteString("| Benchmark | Baseline | Current | Change |\n")
	md.WriteString("|-----------|---------:|--------:|-------:|\n")
	for _, regression := range benchmark.Regressions {
		fmt.Fprintf(md, "| %s | %s | %s | +%.1f%% |\n",
			regression.Benchmark,
			types.FormatDuration(regression.Baseline),
			types.FormatDuration(regression.Current),
			regression.ChangePct)
	}
}
