package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

type GuidesHandler struct {
	guides   services.GuideService
	roles    services.RoleService
	validate interface{ Struct(any) error }
}

func NewGuidesHandler(guides services.GuideService, roles services.RoleService, v interface{ Struct(any) error }) *GuidesHandler {
	return &GuidesHandler{guides: guides, roles: roles, validate: v}
}

func (h *GuidesHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req types.GuideRequestCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	guideID, err := uuid.Parse(req.GuideID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid guide id")
		return
	}

	created, err := h.guides.RequestGuide(r.Context(), userID, guideID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

func (h *GuidesHandler) Decide(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleGuide); err != nil {
		writeError(w, err)
		return
	}
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req types.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := h.guides.Decide(r.Context(), userID, requestID, req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: updated})
}

func (h *GuidesHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleGuide); err != nil {
		writeError(w, err)
		return
	}
	items, err := h.guides.PendingForGuide(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

// AssignedGroups is the guide dashboard: supervised groups with their
// submissions and declarations.
func (h *GuidesHandler) AssignedGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleGuide); err != nil {
		writeError(w, err)
		return
	}
	items, err := h.guides.AssignedGroups(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

// ListGuides is the directory students pick a guide from.
func (h *GuidesHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUserID(w, r); !ok {
		return
	}
	items, err := h.guides.ListGuides(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}
