package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/harmless95/auth-project/pkg/errors"
	"github.com/harmless95/auth-project/pkg/logger"
	"github.com/harmless95/auth-project/pkg/validator"
)

// errorEnvelope wraps every error body; success bodies are flat DTOs.
type errorEnvelope struct {
	Error errorResponse `json:"error"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{
		Error: errorResponse{Code: code, Message: message},
	})
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.Status
		code = appErr.Code
		message = appErr.Message
	} else {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = "NOT_FOUND"
			message = "resource not found"
			status = http.StatusNotFound
		case errors.Is(err, apperrors.ErrAlreadyExists):
			code = "ALREADY_EXISTS"
			message = "resource already exists"
			status = http.StatusConflict
		case errors.Is(err, apperrors.ErrInvalidInput):
			code = "INVALID_INPUT"
			message = err.Error()
			status = http.StatusBadRequest
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = "UNAUTHORIZED"
			message = err.Error()
			status = http.StatusUnauthorized
		}
	}

	// Internal errors are logged with the request-scoped logger so the entry
	// carries correlation_id and trace context; the response body stays generic.
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeError(w, status, code, message)
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error: errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
}
