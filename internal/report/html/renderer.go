// Package html renders aggregated reports as standalone HTML documents.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/academicworkflow/awap/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatHTML
}

func (r *Renderer) Render(data *types.ReportData) (string, error) {
	templateData := map[string]any{
		"Title":       data.Title,
		"Generated":   data.GeneratedAt.Format("2006-01-02 15:04:05"),
		"Security":    data.Security,
		"Benchmark":   data.Benchmark,
		"CSS":         template.CSS(reportCSS),
		"FindingRows": r.findingSections(data.Security),
	}
	return r.executeTemplate(reportTemplate, templateData)
}

type findingSection struct {
	Severity string
	Class    string
	Messages []string
}

func (r *Renderer) findingSections(security *types.SecuritySummary) []findingSection {
	if security == nil {
		return nil
	}
	sections := []findingSection{
		{Severity: "Critical", Class: "critical", Messages: security.Critical},
		{Severity: "High", Class: "high", Messages: security.High},
		{Severity: "Medium", Class: "medium", Messages: security.Medium},
		{Severity: "Low", Class: "low", Messages: security.Low},
	}
	kept := sections[:0]
	for _, section := range sections {
		if len(section.Messages) > 0 {
			kept = append(kept, section)
		}
	}
	return kept
}

func (r *Renderer) executeTemplate(templateStr string, data any) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"lower":    strings.ToLower,
		"duration": types.FormatDuration,
		"pct":      func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute HTML template: %w", err)
	}

	return buf.String(), nil
}

const reportCSS = `
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; border-bottom: 3px solid #007bff; padding-bottom: 10px; }
        h2 { color: #555; margin-top: 30px; }
        .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin: 20px 0; }
        .metric { background: #f8f9fa; padding: 20px; border-radius: 5px; text-align: center; }
        .metric-value { font-size: 36px; font-weight: bold; margin: 10px 0; }
        .metric-label { color: #666; font-size: 14px; }
        .critical { color: #dc3545; }
        .high { color: #fd7e14; }
        .medium { color: #ffc107; }
        .low { color: #28a745; }
        .pass { color: #28a745; }
        .fail { color: #dc3545; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background: #007bff; color: white; }
        tr:hover { background: #f8f9fa; }
        .findings-list { list-style: none; padding: 0; }
        .findings-list li { padding: 10px; margin: 5px 0; background: #fff3cd; border-left: 4px solid #ffc107; }
        .badge { padding: 4px 8px; border-radius: 3px; font-size: 12px; font-weight: bold; }
        .badge-pass { background: #d4edda; color: #155724; }
        .badge-fail { background: #f8d7da; color: #721c24; }
`

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}} - {{.Generated}}</title>
    <style>{{.CSS}}</style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p><strong>Generated:</strong> {{.Generated}}</p>
{{if .Security}}
        <h2>Executive Summary</h2>
        <div class="summary">
            <div class="metric">
                <div class="metric-label">Total Checks</div>
                <div class="metric-value">{{len .Security.Checks}}</div>
            </div>
            <div class="metric">
                <div class="metric-label">Pass Rate</div>
                <div class="metric-value pass">{{pct .Security.PassRate}}%</div>
            </div>
            <div class="metric">
                <div class="metric-label">Critical Findings</div>
                <div class="metric-value critical">{{len .Security.Critical}}</div>
            </div>
            <div class="metric">
                <div class="metric-label">High Findings</div>
                <div class="metric-value high">{{len .Security.High}}</div>
            </div>
            <div class="metric">
                <div class="metric-label">Medium Findings</div>
                <div class="metric-value medium">{{len .Security.Medium}}</div>
            </div>
        </div>

        <h2>Check Results</h2>
        <table>
            <thead>
                <tr><th>Check</th><th>Status</th><th>Details</th></tr>
            </thead>
            <tbody>
{{range .Security.Checks}}                <tr>
                    <td>{{.Name}}</td>
                    <td><span class="badge badge-{{lower .Status}}">{{.Status}}</span></td>
                    <td>{{.Details}}</td>
                </tr>
{{end}}            </tbody>
        </table>

        <h2>Findings</h2>
{{if .FindingRows}}{{range .FindingRows}}        <h3 class="{{.Class}}">{{.Severity}} ({{len .Messages}})</h3>
        <ul class="findings-list">
{{range .Messages}}            <li>{{.}}</li>
{{end}}        </ul>
{{end}}{{else}}        <p class="pass">No findings.</p>
{{end}}{{end}}
{{if .Benchmark}}
        <h2>Benchmark Results</h2>
        <table>
            <thead>
                <tr><th>Benchmark</th><th>Iterations</th><th>Time</th><th>Bytes/op</th><th>Allocs/op</th></tr>
            </thead>
            <tbody>
{{range .Benchmark.Results}}                <tr>
                    <td>{{.Name}}</td>
                    <td>{{.Iterations}}</td>
                    <td>{{duration .NsPerOp}}</td>
                    <td>{{.BytesPerOp}}</td>
                    <td>{{.AllocsPerOp}}</td>
                </tr>
{{end}}            </tbody>
        </table>

        <h2>Regression Analysis</h2>
{{if .Benchmark.Regressions}}        <p class="fail">{{len .Benchmark.Regressions}} performance regression(s) detected</p>
        <table>
            <thead>
                <tr><th>Benchmark</th><th>Baseline</th><th>Current</th><th>Change</th></tr>
            </thead>
            <tbody>
{{range .Benchmark.Regressions}}                <tr>
                    <td>{{.Benchmark}}</td>
                    <td>{{duration .Baseline}}</td>
                    <td>{{duration .Current}}</td>
                    <td class="fail">+{{pct .ChangePct}}%</td>
                </tr>
{{end}}            </tbody>
        </table>
{{else}}        <p class="pass">No performance regressions detected</p>
{{end}}{{end}}
    </div>
</body>
</html>
`
