package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// SuccessResponse is the envelope around every 2xx body.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope around every error body.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON encodes body with status. Responses carry account and billing
// state, so they are never cacheable.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) error {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if status == http.StatusNoContent || body == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) error {
	return WriteSuccessWithMessage(w, status, "", data)
}

func WriteSuccessWithMessage(w http.ResponseWriter, status int, message string, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

func WriteError(w http.ResponseWriter, err *errors.AppError) error {
	return writeFailure(w, err.StatusCode, ErrorDetail{Code: err.Code, Message: err.Message, Details: err.Details})
}

func WriteErrorMessage(w http.ResponseWriter, status int, code, message string) error {
	return writeFailure(w, status, ErrorDetail{Code: code, Message: message})
}

// WriteAnyError writes err's AppError when it carries one. Anything else is
// reported as a bare 500 so internal messages never reach the client.
func WriteAnyError(w http.ResponseWriter, err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal("Internal server error", err)
	}
	return WriteError(w, appErr)
}

func writeFailure(w http.ResponseWriter, status int, detail ErrorDetail) error {
	return WriteJSON(w, status, ErrorResponse{Error: detail})
}
