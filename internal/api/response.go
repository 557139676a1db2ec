package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"rjboard/internal/service"
	"rjboard/internal/upstream"
)

const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeAuthFailed       = "AUTH_FAILED"
	ErrCodeNotPermitted     = "NOT_PERMITTED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeUpstreamDown     = "SERVICE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrors service.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrCodeValidationFailed,
			Message: "One or more fields are invalid",
			Fields:  fieldErrors,
		},
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, message)
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, ErrCodeNotPermitted, "You are not permitted to perform this action")
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func conflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

func upstreamUnavailable(w http.ResponseWriter) {
	writeError(w, http.StatusBadGateway, ErrCodeUpstreamDown, "The service is temporarily unavailable, please try again")
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred")
}

// writeServiceError maps lifecycle and data-service failures onto the
// response surface. Data-service 4xx responses pass through with their
// status unchanged; 5xx and transport failures become a generic
// unavailable message with details kept to the operator log.
func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErrors service.FieldErrors
	if errors.As(err, &fieldErrors) {
		writeFieldErrors(w, fieldErrors)
		return
	}
	if errors.Is(err, service.ErrNotPermitted) {
		forbidden(w)
		return
	}
	if errors.Is(err, service.ErrStateConflict) {
		conflict(w, "This action was already performed")
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		notFound(w, "Resource not found")
		return
	}

	var respErr *upstream.Error
	if errors.As(err, &respErr) && respErr.Status < 500 {
		writeError(w, respErr.Status, codeForStatus(respErr.Status), respErr.Message)
		return
	}

	slog.Error("data service call failed", "error", err)
	upstreamUnavailable(w)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeAuthFailed
	case http.StatusForbidden:
		return ErrCodeNotPermitted
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInvalidRequest
	}
}
