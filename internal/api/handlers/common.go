package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/api/middleware"
	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, types.HTTPStatus(err), types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: &types.APIError{Code: "invalid", Message: msg}})
}

// currentUserID reads the authenticated user from the request context.
// Auth middleware guarantees it on protected routes.
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid session")
		return uuid.Nil, false
	}
	return id, true
}

func activeRole(r *http.Request) services.ActiveRole {
	return services.ActiveRole(middleware.GetActiveRole(r.Context()))
}
