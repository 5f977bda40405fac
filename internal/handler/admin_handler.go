package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-esg-platform/internal/model"
	"go-esg-platform/internal/service"
)

// AdminHandler serves the approval queue of organisational accounts.
type AdminHandler struct {
	service *service.AuthService
}

func NewAdminHandler(service *service.AuthService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListPending(r.Context(), chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", model.AccountList{Accounts: accounts}, nil)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	profile, err := h.service.Approve(auditContext(r), claims, chi.URLParam(r, "role"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Account approved", profile, nil)
}
