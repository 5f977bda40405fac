package handler

import (
	"context"
	"net/http"

	"go-esg-platform/internal/middleware"
	"go-esg-platform/internal/model"
	"go-esg-platform/internal/service"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload model.ChangePasswordRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.service.ChangePassword(auditContext(r), claims, payload); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password changed successfully", nil, nil)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload model.DeleteAccountRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.service.DeleteAccount(auditContext(r), claims, payload); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Account deleted successfully", nil, nil)
}

func auditContext(r *http.Request) context.Context {
	return service.WithClientIP(r.Context(), middleware.ClientIP(r))
}
