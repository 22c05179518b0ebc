package dtos

// ValidationErrorDetail is one field-level failure included in the
// `errors` array of a validation error response.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
