package api

import (
	"encoding/json"
	"fmt"
)

// APIError is a backend-reported failure (non-2xx with a JSON body). Detail
// is normalized to a displayable string: FastAPI-style backends return a
// "detail" field that may itself be a string, an object, or a list.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// normalizeDetail flattens whatever shape the backend put in "detail" into a
// single human-readable string.
func normalizeDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	// Nested object or validation list: re-render compactly.
	var v any
	if err := json.Unmarshal(envelope.Detail, &v); err == nil {
		if out, err := json.Marshal(v); err == nil {
			return string(out)
		}
	}
	return string(envelope.Detail)
}
