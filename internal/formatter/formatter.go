// Package formatter renders marking feedback in a closed set of output
// styles. Formatting is a pure transformation of a marking result.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/go-playground/validator/v10"

	"github.com/academicworkflow/awap/internal/client"
)

// Style selects the output rendering of a marking result.
type Style string

const (
	StyleMarkdown Style = "markdown"
	StyleHTML     Style = "html"
	StyleLaTeX    Style = "latex"
	StylePlain    Style = "plain"
	StyleJSON     Style = "json"
)

// Styles lists every supported style.
func Styles() []string {
	return []string{
		string(StyleMarkdown),
		string(StyleHTML),
		string(StyleLaTeX),
		string(StylePlain),
		string(StyleJSON),
	}
}

// ValidationError reports required result fields that are missing. The
// formatter fails fast instead of substituting empty strings.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("marking result missing required fields: %s", strings.Join(e.Fields, ", "))
}

// requiredFields mirrors the result fields every style depends on.
type requiredFields struct {
	TMAID     string `validate:"required"`
	StudentID string `validate:"required"`
	Grade     string `validate:"required"`
	MarkedAt  string `validate:"required"`
	Summary   string `validate:"required"`
}

var validate = validator.New()

func checkRequired(result *client.MarkingResult) error {
	fields := requiredFields{
		TMAID:     result.TMAID,
		StudentID: result.StudentID,
		Grade:     result.Grade,
		MarkedAt:  result.MarkedAt,
		Summary:   result.Feedback.Summary,
	}
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	missing := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		missing = append(missing, fieldErr.Field())
	}
	return &ValidationError{Fields: missing}
}

// Format renders the result in the given style. Unrecognized styles fall
// back to markdown. A *ValidationError is returned when required fields are
// missing.
func Format(result *client.MarkingResult, style Style) (string, error) {
	if err := checkRequired(result); err != nil {
		return "", err
	}

	switch style {
	case StyleHTML:
		return formatHTML(result)
	case StyleLaTeX:
		return formatLaTeX(result)
	case StylePlain:
		return formatPlain(result)
	case StyleJSON:
		return formatJSON(result)
	default:
		return formatMarkdown(result)
	}
}

const markdownTemplate = `# Assignment Feedback

**Student ID:** {{.StudentID}}
**Date:** {{.MarkedAt}}

## Grade

**Score:** {{.Score}}/100
**Grade:** {{.Grade}}

## Summary

{{.Feedback.Summary}}

## Strengths

{{range .Feedback.Strengths}}- {{.}}
{{end}}
## Areas for Improvement

{{range .Feedback.AreasForImprovement}}- {{.}}
{{end}}`

func formatMarkdown(result *client.MarkingResult) (string, error) {
	return executeText("markdown", markdownTemplate, result)
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Assignment Feedback</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        h1 { color: #333; }
        .grade { font-size: 2em; color: #4CAF50; }
        .section { margin: 20px 0; }
        ul { list-style-type: disc; margin-left: 20px; }
    </style>
</head>
<body>
    <h1>Assignment Feedback</h1>
    <p><strong>Student ID:</strong> {{.StudentID}}</p>
    <p><strong>Date:</strong> {{.MarkedAt}}</p>

    <div class="section">
        <h2>Grade</h2>
        <p class="grade">{{.Grade}} ({{.Score}}/100)</p>
    </div>

    <div class="section">
        <h2>Summary</h2>
        <p>{{.Feedback.Summary}}</p>
    </div>

    <div class="section">
        <h2>Strengths</h2>
        <ul>
{{range .Feedback.Strengths}}            <li>{{.}}</li>
{{end}}        </ul>
    </div>

    <div class="section">
        <h2>Areas for Improvement</h2>
        <ul>
{{range .Feedback.AreasForImprovement}}            <li>{{.}}</li>
{{end}}        </ul>
    </div>
</body>
</html>
`

func formatHTML(result *client.MarkingResult) (string, error) {
	tmpl, err := template.New("html").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing html template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("executing html template: %w", err)
	}
	return buf.String(), nil
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

const latexTemplate = `\documentclass{article}
\usepackage[utf8]{inputenc}
\usepackage{enumitem}

\title{Assignment Feedback}
\author{Academic Workflow Suite}
\date{ {{- tex .MarkedAt -}} }

\begin{document}

\maketitle

\section*{Student Information}
\textbf{Student ID:} {{tex .StudentID}}

\section*{Grade}
\textbf{Score:} {{.Score}}/100 \\
\textbf{Grade:} {{tex .Grade}}

\section*{Summary}
{{tex .Feedback.Summary}}

\section*{Strengths}
\begin{itemize}
{{range .Feedback.Strengths}}    \item {{tex .}}
{{end}}\end{itemize}

\section*{Areas for Improvement}
\begin{itemize}
{{range .Feedback.AreasForImprovement}}    \item {{tex .}}
{{end}}\end{itemize}

\end{document}
`

func formatLaTeX(result *client.MarkingResult) (string, error) {
	tmpl, err := texttemplate.New("latex").Funcs(texttemplate.FuncMap{
		"tex": latexReplacer.Replace,
	}).Parse(latexTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing latex template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("executing latex template: %w", err)
	}
	return buf.String(), nil
}

const plainTemplate = `ASSIGNMENT FEEDBACK
==================================================

Student ID: {{.StudentID}}
Date: {{.MarkedAt}}

GRADE: {{.Grade}} ({{.Score}}/100)

SUMMARY
--------------------------------------------------
{{.Feedback.Summary}}

STRENGTHS
--------------------------------------------------
{{range $i, $s := .Feedback.Strengths}}{{inc $i}}. {{$s}}
{{end}}
AREAS FOR IMPROVEMENT
--------------------------------------------------
{{range $i, $s := .Feedback.AreasForImprovement}}{{inc $i}}. {{$s}}
{{end}}`

func formatPlain(result *client.MarkingResult) (string, error) {
	tmpl, err := texttemplate.New("plain").Funcs(texttemplate.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(plainTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing plain template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("executing plain template: %w", err)
	}
	return buf.String(), nil
}

func formatJSON(result *client.MarkingResult) (string, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling result: %w", err)
	}
	return string(out), nil
}

func executeText(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := texttemplate.New(name).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.String(), nil
}
