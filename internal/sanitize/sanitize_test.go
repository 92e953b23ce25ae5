package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDangerous(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"plain name", "John Doe", false},
		{"script tag", "hello <script>alert(1)</script>", true},
		{"script tag upper case", "<SCRIPT>alert(1)</SCRIPT>", true},
		{"mixed case mid string", "abc<ScRiPt src=x>", true},
		{"javascript url", "javascript:alert(1)", true},
		{"php open tag", "<?php system('ls');", true},
		{"event handler", "x onerror=alert(1)", true},
		{"onload handler", "body ONLOAD=go()", true},
		{"iframe", "<iframe src=evil>", true},
		{"eval call", "eval(document.cookie)", true},
		{"cookie theft", "steal document.cookie now", true},
		{"address with slash", "12/A, Green Road, Dhaka", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dangerous(tt.value))
		})
	}
}

func TestClean(t *testing.T) {
	got, ok := Clean("  John Doe  ")
	assert.True(t, ok)
	assert.Equal(t, "John Doe", got)

	_, ok = Clean("<script>alert(1)</script>")
	assert.False(t, ok)
}

func TestCleanIdempotent(t *testing.T) {
	once, ok := Clean("  Jane Roe ")
	assert.True(t, ok)

	twice, ok := Clean(once)
	assert.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestPayload(t *testing.T) {
	safe := map[string]any{
		"personalInfo": map[string]any{
			"name": "John Doe",
			"roll": float64(123),
		},
		"tags": []any{"a", "b"},
	}
	assert.True(t, Payload(safe))

	// A denylist hit anywhere in the nesting fails the whole payload.
	nested := map[string]any{
		"personalInfo": map[string]any{
			"name": "John",
		},
		"contactInfo": map[string]any{
			"currentAddress": "x <script>doc</script>",
		},
	}
	assert.False(t, Payload(nested))

	inList := map[string]any{
		"items": []any{"ok", "<ScRiPt>"},
	}
	assert.False(t, Payload(inList))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "John Doe", "John Doe"},
		{"tag removed", "Jo<b>hn</b>", "John"},
		{"script token removed", "Joscripthn", "John"},
		{"bracketed run removed", "a < b > c", "a  c"},
		{"event handler removed", "x onclick= y", "x  y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.value))
		})
	}
}

func TestStripHTMLIdempotent(t *testing.T) {
	once := StripHTML("Jo<script>hn</script> Doe")
	assert.Equal(t, once, StripHTML(once))
}
