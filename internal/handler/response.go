package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go-esg-platform/internal/middleware"
	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/apierror"
	"go-esg-platform/pkg/role"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// writeError is the single place errors become HTTP responses. Anything that
// is not a typed outcome is logged in full and answered with a generic
// message plus the request id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := model.APIResponse{
		Success: false,
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		for _, fe := range apiErr.Fields {
			body.Errors = append(body.Errors, model.FieldError{Field: fe.Field, Message: fe.Message})
		}
	case errors.Is(err, model.ErrAccountNotFound):
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "Account not found"
	case errors.Is(err, model.ErrAccountAlreadyExists):
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		body.Message = "Account already exists"
	case errors.Is(err, role.ErrInvalidRole):
		status = http.StatusBadRequest
		body.Code = apierror.CodeInvalidRole
		body.Message = "invalid role"
	default:
		requestID := middleware.RequestIDFromContext(r.Context())
		slog.Error("unhandled error", "error", err.Error(), "request_id", requestID, "path", r.URL.Path)
		body.Error = requestID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, apierror.New(apierror.CodeBadRequest, "invalid JSON body", "", http.StatusBadRequest))
		return false
	}
	return true
}

func claimsOrUnauthorized(w http.ResponseWriter, r *http.Request) (model.AuthClaims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims == nil {
		writeError(w, r, apierror.Unauthorized("authentication required"))
		return model.AuthClaims{}, false
	}
	return *claims, true
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
