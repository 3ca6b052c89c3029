package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// visibleTail is how many trailing characters Mask leaves readable.
const visibleTail = 4

var secretPatterns = []*regexp.Regexp{
	// Authorization headers
	regexp.MustCompile(`(?i)(Basic|Bearer)\s+[A-Za-z0-9._~+/=-]{16,}`),
	// Atlassian API tokens
	regexp.MustCompile(`ATATT[A-Za-z0-9_=-]{20,}`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']?([^"'\s]{8,})["']?`),
	// Userinfo in URLs
	regexp.MustCompile(`(?i)(https?://)[^/\s:@]+:[^/\s@]+@`),
}

// Secrets replaces every occurrence of the known values and every detected
// credential in text with [REDACTED]. Empty known values are ignored.
func Secrets(text string, known ...string) string {
	result := text
	for _, k := range known {
		if k == "" {
			continue
		}
		result = strings.ReplaceAll(result, k, placeholder)
	}
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Mask hides all but the last few characters of s. Short values are hidden
// entirely; the empty string stays empty so "unset" remains visible.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= visibleTail*2 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visibleTail) + s[len(s)-visibleTail:]
}
