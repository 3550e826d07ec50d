// Package response writes the JSON envelope shared by every API endpoint
package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorBody is the error part of a failed response. Fields carries
// per-field validation messages keyed by JSON field name.
type ErrorBody struct {
	Code      errors.ErrorCode  `json:"code"`
	Message   string            `json:"message"`
	Details   string            `json:"details,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// JSON writes data as JSON with the given status
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK writes a successful envelope around data
func OK(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, APIResponse{Success: true, Data: data})
}

// Message writes a successful envelope with only a message
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, APIResponse{Success: true, Message: message})
}

// Error renders err in the failure envelope. Errors that are not AppErrors
// become internal errors and their text is not exposed.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError("An unexpected error occurred").WithCause(err)
	}

	status := appErr.StatusCode()
	requestID := chimiddleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	} else {
		logger.Debug("Request rejected",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.String("message", appErr.Message),
		)
	}

	JSON(w, status, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		},
	})
}

// Invalid writes a 422 with per-field messages
func Invalid(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Code:      errors.CodeValidationFailed,
			Message:   "Validation failed",
			Fields:    fields,
			RequestID: chimiddleware.GetReqID(r.Context()),
		},
	})
}
