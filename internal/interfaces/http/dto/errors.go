package dto

import (
	"net/http"

	"github.com/erp/docengine/internal/domain/shared"
)

// Transport error codes. Domain error codes from the shared package are
// passed through unchanged.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = shared.CodeInternal
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeInvalidInput:              http.StatusBadRequest,
	shared.CodeMissingResetContext:       http.StatusUnprocessableEntity,
	shared.CodeTemplateNotFound:          http.StatusNotFound,
	shared.CodeNotFound:                  http.StatusNotFound,
	shared.CodeSequenceReservationFailed: http.StatusServiceUnavailable,
	shared.CodeInternal:                  http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
