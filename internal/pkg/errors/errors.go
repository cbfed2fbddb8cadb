// Package errors carries the marketplace error codes from services to the
// HTTP envelope. Each code maps to exactly one HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the error type every service returns to the HTTP layer.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Internal == nil {
		return e.Message
	}
	return e.Message + ": " + e.Internal.Error()
}

func (e *AppError) Unwrap() error { return e.Internal }

// WithDetails sets the envelope's details field and returns e.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

const (
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	ErrCodeProviderAPI         = "PROVIDER_API_ERROR"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// PAYMENT_NOT_COMPLETED is a client error: the customer has not paid yet.
var statusOf = map[string]int{
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeDatabase:            http.StatusInternalServerError,
	ErrCodePaymentNotCompleted: http.StatusBadRequest,
	ErrCodeProviderAPI:         http.StatusBadGateway,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeServiceUnavailable:  http.StatusServiceUnavailable,
}

// New builds an AppError. Unknown codes fall back to the status given.
func New(code, message string, statusCode int) *AppError {
	if s, ok := statusOf[code]; ok {
		statusCode = s
	}
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

func coded(code, message string, cause error) *AppError {
	e := New(code, message, http.StatusInternalServerError)
	e.Internal = cause
	return e
}

func Internal(message string, err error) *AppError { return coded(ErrCodeInternal, message, err) }
func BadRequest(message string) *AppError          { return coded(ErrCodeBadRequest, message, nil) }
func Unauthorized(message string) *AppError        { return coded(ErrCodeUnauthorized, message, nil) }
func Forbidden(message string) *AppError           { return coded(ErrCodeForbidden, message, nil) }
func Conflict(message string) *AppError            { return coded(ErrCodeConflict, message, nil) }
func RateLimited(message string) *AppError         { return coded(ErrCodeRateLimited, message, nil) }
func ServiceUnavailable(message string) *AppError  { return coded(ErrCodeServiceUnavailable, message, nil) }

// InvalidArgument is a bad request raised by a service rather than by decoding.
func InvalidArgument(format string, args ...interface{}) *AppError {
	return coded(ErrCodeBadRequest, fmt.Sprintf(format, args...), nil)
}

// NotFound names the missing resource, e.g. NotFound("Agent").
func NotFound(resource string) *AppError {
	return coded(ErrCodeNotFound, resource+" not found", nil)
}

func ValidationError(message string, details interface{}) *AppError {
	return coded(ErrCodeValidation, message, nil).WithDetails(details)
}

func DatabaseError(message string, err error) *AppError {
	return coded(ErrCodeDatabase, message, err)
}

// PaymentNotCompleted reports a payment intent the provider has not marked
// succeeded. The provider status is echoed in details.
func PaymentNotCompleted(status string) *AppError {
	return coded(ErrCodePaymentNotCompleted, fmt.Sprintf("Payment has not been completed (status: %s)", status), nil).
		WithDetails(map[string]string{"status": status})
}

// ProviderAPIError is an upstream failure at the payment provider.
func ProviderAPIError(provider string, err error) *AppError {
	return coded(ErrCodeProviderAPI, fmt.Sprintf("Failed to communicate with %s API", provider), err)
}

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the AppError code of err, or ErrCodeInternal for anything else.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
