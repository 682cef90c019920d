package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/projectflow/engine/internal/api/types"
	appErr "github.com/projectflow/engine/pkg/errors"

	"github.com/projectflow/engine/internal/services"
)

type SDGHandler struct {
	sdg   services.SDGService
	roles services.RoleService
}

func NewSDGHandler(sdg services.SDGService, roles services.RoleService) *SDGHandler {
	return &SDGHandler{sdg: sdg, roles: roles}
}

func (h *SDGHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req services.SDGInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := h.sdg.Submit(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

func (h *SDGHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	sdg, err := h.sdg.GetForGroupMember(r.Context(), userID)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: nil})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: sdg})
}
