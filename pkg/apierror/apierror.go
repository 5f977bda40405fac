package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeInvalidRole  = "INVALID_ROLE"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "ALREADY_EXISTS"
	CodeInternal     = "INTERNAL_ERROR"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    string       `json:"details,omitempty"`
	Fields     []FieldError `json:"errors,omitempty"`
	HTTPStatus int          `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("%s: %s [%s]", e.Code, e.Message, strings.Join(parts, "; "))
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func Validation(message string, fields ...FieldError) *APIError {
	return &APIError{Code: CodeValidation, Message: message, Fields: fields, HTTPStatus: http.StatusBadRequest}
}

func InvalidRole(raw string) *APIError {
	return New(CodeInvalidRole, "invalid role", raw, http.StatusBadRequest)
}

func NotFound(message string) *APIError {
	return New(CodeNotFound, message, "", http.StatusNotFound)
}

func Unauthorized(message string) *APIError {
	return New(CodeUnauthorized, message, "", http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, "", http.StatusForbidden)
}

func Conflict(message string) *APIError {
	return New(CodeConflict, message, "", http.StatusConflict)
}

// HasCode reports whether err is an *APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr != nil && apiErr.Code == code
}
