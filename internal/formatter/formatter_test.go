package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academicworkflow/awap/internal/client"
)

func sampleResult() *client.MarkingResult {
	return &client.MarkingResult{
		TMAID:     "tma_123456",
		StudentID: "student001",
		Score:     85,
		Grade:     "B+",
		MarkedAt:  "2026-08-30T10:00:00Z",
		Feedback: client.Feedback{
			Summary: "Good work overall with clear arguments and strong evidence.",
			Strengths: []string{
				"Clear thesis statement",
				"Good use of supporting evidence",
			},
			AreasForImprovement: []string{
				"Citation formatting needs attention",
				"Conclusion could be stronger",
			},
		},
	}
}

func TestFormatMarkdown(t *testing.T) {
	out, err := Format(sampleResult(), StyleMarkdown)
	require.NoError(t, err)

	assert.Contains(t, out, "# Assignment Feedback")
	assert.Contains(t, out, "**Student ID:** student001")
	assert.Contains(t, out, "**Grade:** B+")
	assert.Contains(t, out, "- Clear thesis statement")
	assert.Contains(t, out, "- Citation formatting needs attention")
}

func TestFormatPlain(t *testing.T) {
	out, err := Format(sampleResult(), StylePlain)
	require.NoError(t, err)

	assert.Contains(t, out, "ASSIGNMENT FEEDBACK")
	assert.Contains(t, out, "GRADE: B+ (85/100)")
	assert.Contains(t, out, "1. Clear thesis statement")
	assert.Contains(t, out, "2. Good use of supporting evidence")
}

func TestFormatHTMLEscapesMarkup(t *testing.T) {
	result := sampleResult()
	result.Feedback.Strengths = []string{"<script>alert('x')</script>"}

	out, err := Format(result, StyleHTML)
	require.NoError(t, err)

	assert.Contains(t, out, "<h2>Strengths</h2>")
	assert.NotContains(t, out, "<script>alert")
}

func TestFormatLaTeXEscapesReservedCharacters(t *testing.T) {
	result := sampleResult()
	result.Feedback.Summary = "Scored 85% on section_one & section_two"

	out, err := Format(result, StyleLaTeX)
	require.NoError(t, err)

	assert.Contains(t, out, `\documentclass{article}`)
	assert.Contains(t, out, `85\%`)
	assert.Contains(t, out, `section\_one \& section\_two`)
}

func TestFormatJSONRoundTrip(t *testing.T) {
	original := sampleResult()
	out, err := Format(original, StyleJSON)
	require.NoError(t, err)

	var decoded client.MarkingResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, *original, decoded)
}

func TestFormatUnknownStyleFallsBackToMarkdown(t *testing.T) {
	out, err := Format(sampleResult(), Style("docx"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Assignment Feedback"))
}

func TestFormatMissingRequiredFields(t *testing.T) {
	result := sampleResult()
	result.Grade = ""
	result.Feedback.Summary = ""

	_, err := Format(result, StyleMarkdown)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.ElementsMatch(t, []string{"Grade", "Summary"}, validationErr.Fields)
}

func TestStyles(t *testing.T) {
	assert.ElementsMatch(t, []string{"markdown", "html", "latex", "plain", "json"}, Styles())
}
