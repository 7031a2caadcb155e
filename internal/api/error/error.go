// Package error defines the error payload returned by the API.
package error

import (
	"encoding/json"
	"net/http"

	"github.com/matt-dz/foodgram/internal/validation"
)

// Error is the body of every failed response. ErrorID is the request id.
type Error struct {
	Status  int                 `json:"status"`
	Code    ErrorCode           `json:"code"`
	Message string              `json:"detail"`
	ErrorID string              `json:"error_id"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func write(w http.ResponseWriter, body *Error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	return json.NewEncoder(w).Encode(body)
}

// EncodeError writes an error response with the status of code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	return write(w, &Error{
		Status:  code.StatusCode(),
		Code:    code,
		Message: message,
		ErrorID: errorID,
	})
}

func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}

// EncodeValidationError writes a 400 listing the problems per field.
func EncodeValidationError(w http.ResponseWriter, verr *validation.Error, errorID string) error {
	return write(w, &Error{
		Status:  ValidationFailed.StatusCode(),
		Code:    ValidationFailed,
		Message: verr.Error(),
		ErrorID: errorID,
		Fields:  verr.Fields,
	})
}
