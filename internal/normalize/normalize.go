package normalize

import "encoding/json"

// Form coerces flat multipart form values into a nested payload. Each
// field's first value is parsed as JSON when possible; values that are
// not valid JSON (plain strings, mostly) are kept as-is. This step
// never fails: it is a best-effort coercion, validation happens later.
func Form(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		raw := vals[0]
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			out[key] = raw
			continue
		}
		out[key] = parsed
	}
	return out
}
