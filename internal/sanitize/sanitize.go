package sanitize

import (
	"regexp"
	"strings"
)

// Substrings that mark a value as a possible script or code injection.
// Matching is case-insensitive and positional anywhere in the value.
var dangerousPatterns = []string{
	"<script",
	"</script",
	"javascript:",
	"<?php",
	"<iframe",
	"eval(",
	"exec(",
	"system(",
	"onerror=",
	"onload=",
	"onclick=",
	"onmouseover=",
	"document.cookie",
	"base64_decode",
}

var (
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	angleRe   = regexp.MustCompile(`[<>]`)
	scriptRe  = regexp.MustCompile(`(?i)script`)
	handlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// Dangerous reports whether s contains any denylisted pattern.
func Dangerous(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range dangerousPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Clean returns the trimmed value and whether it is safe to keep.
// A rejected value is reported explicitly instead of being nulled
// out, so callers never confuse "rejected" with "absent".
func Clean(s string) (string, bool) {
	if Dangerous(s) {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Payload walks every scalar in a nested payload and reports whether
// all string values are safe. It deliberately does not say which field
// failed: the caller turns a false result into one generic error so an
// attacker gets no probing feedback.
func Payload(m map[string]any) bool {
	for _, v := range m {
		if !value(v) {
			return false
		}
	}
	return true
}

func value(v any) bool {
	switch t := v.(type) {
	case string:
		_, ok := Clean(t)
		return ok
	case map[string]any:
		return Payload(t)
	case []any:
		for _, item := range t {
			if !value(item) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// StripHTML removes tags, stray angle brackets, "script" tokens and
// inline event-handler attributes. The result is only ever used as the
// value checked against a format regex, never as the stored value.
func StripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = angleRe.ReplaceAllString(s, "")
	s = handlerRe.ReplaceAllString(s, "")
	s = scriptRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
