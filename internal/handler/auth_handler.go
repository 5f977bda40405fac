package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-esg-platform/internal/model"
	"go-esg-platform/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.service.Login(auditContext(r), chi.URLParam(r, "role"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", result, nil)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload model.SignupRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.service.Signup(auditContext(r), chi.URLParam(r, "role"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Account created successfully"
	if result.Token == "" {
		message = "Account created and pending approval"
	}
	writeSuccess(w, http.StatusCreated, message, result, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	profile, err := h.service.Profile(r.Context(), claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", profile, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	revoked, err := h.service.Logout(auditContext(r), claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logged out", map[string]any{"revoked": revoked}, nil)
}
