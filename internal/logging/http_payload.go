package logging

import (
	"encoding/json"
	"strings"
)

// FormatHTTPPayload normalizes an HTTP response body for log output. JSON
// bodies, including JSON encoded as a quoted string, are re-indented.
func FormatHTTPPayload(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "<empty>"
	}
	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		trimmed = strings.TrimSpace(quoted)
	}
	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		if out, err := marshalPrettyJSON(value); err == nil {
			return out
		}
	}
	return trimmed
}
