package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

type AuthHandler struct {
	auth     services.AuthService
	roles    services.RoleService
	validate interface{ Struct(any) error }
}

func NewAuthHandler(auth services.AuthService, roles services.RoleService, v interface{ Struct(any) error }) *AuthHandler {
	return &AuthHandler{auth: auth, roles: roles, validate: v}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
		},
	})
}

// Login returns a bearer token plus the resolved role so clients know
// which dashboard to open. Dual-capability faculty are pointed at the
// role selection screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	role, err := h.roles.RoleOf(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	redirect := "/student/dashboard"
	switch role {
	case services.RoleGuide:
		redirect = "/guide/dashboard"
	case services.RoleCoordinator:
		redirect = "/coordinator/dashboard"
	case services.RoleGuideAndCoordinator:
		redirect = "/role-selection"
	case services.RoleNone:
		redirect = "/"
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   86400,
			"role":         role,
			"redirect":     redirect,
			"user": map[string]any{
				"id":    u.ID,
				"email": u.Email,
				"name":  u.Name,
			},
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
