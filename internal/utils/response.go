package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeValidation     = "validation_error"
	ErrCodeInternal       = "internal_server_error"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeDuplicateEmail = "duplicate_email"
)

// ErrorResponse is the wire shape for every failed call. Detail carries the
// human-readable message clients surface directly to the operator.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Errors any    `json:"errors,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and detail message. The optional `fieldErrs` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicDetail string,
	fieldErrs any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:   errorCode,
		Detail: publicDetail,
	}
	if fieldErrs != nil {
		errBody.Errors = fieldErrs
	}
	_ = json.NewEncoder(w).Encode(errBody)

	// devErr is optional; only handle if provided
	if len(devErrs) > 0 && devErrs[0] != nil {
		Logger.WithFields(logrus.Fields{
			"status": status,
			"error":  devErrs[0].Error(),
		}).Error(publicDetail)
	} else {
		Logger.WithFields(logrus.Fields{
			"status": status,
		}).Error(publicDetail)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
