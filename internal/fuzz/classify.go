package fuzz

import (
	"fmt"
	"net/http"
	"strings"
)

var sqlErrorSignatures = []string{
	"SQL syntax",
	"mysql_fetch",
	"postgresql",
	"ORA-",
	"sqlite3",
	"SQLSTATE",
}

var traversalSignatures = []string{
	"root:",
	"password:",
	"[users]",
	"BEGIN RSA PRIVATE KEY",
}

var disclosureSignatures = []string{
	"traceback",
	"exception",
	"error",
	"stack",
}

var securityHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Content-Security-Policy",
	"Strict-Transport-Security",
}

func stringValues(payload map[string]any) []string {
	values := make([]string, 0, len(payload))
	for _, value := range payload {
		if s, ok := value.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

// classify inspects a response for security issue signatures. The result is
// advisory: substring matches produce false positives and negatives by
// nature.
func classify(endpoint, method string, payload map[string]any, payloadDesc string, resp *http.Response, body string, firstRequest bool) []Finding {
	var findings []Finding
	lowerBody := strings.ToLower(body)
	values := stringValues(payload)

	for _, signature := range sqlErrorSignatures {
		if strings.Contains(lowerBody, strings.ToLower(signature)) {
			findings = append(findings, Finding{
				Severity: SeverityCritical,
				Category: "SQL Injection",
				Endpoint: endpoint,
				Method:   method,
				Payload:  payloadDesc,
				Message:  fmt.Sprintf("potential SQL injection - %s in response", signature),
			})
		}
	}

	for _, value := range values {
		lowerValue := strings.ToLower(value)
		if !strings.Contains(lowerValue, "<script>") && !strings.Contains(lowerValue, "onerror=") {
			continue
		}
		if strings.Contains(body, value) {
			findings = append(findings, Finding{
				Severity: SeverityHigh,
				Category: "XSS",
				Endpoint: endpoint,
				Method:   method,
				Payload:  payloadDesc,
				Message:  "potential XSS - input reflected without sanitization",
			})
			break
		}
	}

	traversalAttempted := false
	for _, value := range values {
		if strings.Contains(value, "../") {
			traversalAttempted = true
			break
		}
	}
	if traversalAttempted {
		for _, signature := range traversalSignatures {
			if strings.Contains(body, signature) {
				findings = append(findings, Finding{
					Severity: SeverityCritical,
					Category: "Path Traversal",
					Endpoint: endpoint,
					Method:   method,
					Payload:  payloadDesc,
					Message:  fmt.Sprintf("successful path traversal - %s found in response", signature),
				})
			}
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		for _, word := range disclosureSignatures {
			if strings.Contains(lowerBody, word) {
				findings = append(findings, Finding{
					Severity: SeverityMedium,
					Category: "Information Disclosure",
					Endpoint: endpoint,
					Method:   method,
					Payload:  payloadDesc,
					Message:  fmt.Sprintf("server error reveals internal details: %d", resp.StatusCode),
				})
				break
			}
		}
	}

	// Missing headers are a service-wide property, reported once per run.
	if resp.StatusCode == http.StatusOK && firstRequest {
		var missing []string
		for _, header := range securityHeaders {
			if resp.Header.Get(header) == "" {
				missing = append(missing, header)
			}
		}
		if len(missing) > 0 {
			findings = append(findings, Finding{
				Severity: SeverityLow,
				Category: "Missing Security Headers",
				Endpoint: endpoint,
				Method:   method,
				Message:  fmt.Sprintf("missing headers: %s", strings.Join(missing, ", ")),
			})
		}
	}

	return findings
}
