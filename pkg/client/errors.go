package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// APIError is any non-2xx response. Detail carries the server's `detail`
// message when one was present, otherwise the raw response body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// newAPIError extracts a detail message from an error response body. The
// field may be a plain string or a structured value; structured values are
// flattened to a readable string rather than surfaced as raw JSON types.
func newAPIError(resp *resty.Response) *APIError {
	body := resp.Body()
	detail := strings.TrimSpace(string(body))

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		if d := flattenDetail(envelope.Detail); d != "" {
			detail = d
		}
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Detail: detail}
}

func flattenDetail(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	// Validation-style detail: a list of objects carrying a message field.
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err == nil {
		var parts []string
		for _, item := range items {
			for _, key := range []string{"msg", "message", "detail"} {
				if v, ok := item[key].(string); ok {
					parts = append(parts, v)
					break
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	return strings.TrimSpace(string(raw))
}
