// Package logging sanitizes sensitive material out of log output.
package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches password=xxx, pwd=xxx, pass=xxx up to the next delimiter.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches user:pass@host credentials in URL-style connection strings.
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)

	// Matches api key form fields (the chart service's key parameter).
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|key)=[A-Za-z0-9-_]{8,}`)
)

// SanitizeConnectionString removes credentials from a connection string
// before it is logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeError scrubs credentials that database drivers or the chart
// service may echo back inside error text.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	msg = connStringPattern.ReplaceAllString(msg, "://"+RedactedText+"@"+RedactedText)
	msg = apiKeyPattern.ReplaceAllString(msg, "${1}="+RedactedText)
	return msg
}
