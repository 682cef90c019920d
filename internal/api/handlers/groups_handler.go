package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

type GroupsHandler struct {
	groups   services.GroupService
	roles    services.RoleService
	validate interface{ Struct(any) error }
}

func NewGroupsHandler(groups services.GroupService, roles services.RoleService, v interface{ Struct(any) error }) *GroupsHandler {
	return &GroupsHandler{groups: groups, roles: roles, validate: v}
}

// Overview is the student project dashboard: group, approval, guide, topic
// and SDG state in one payload.
func (h *GroupsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	overview, err := h.groups.Overview(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: overview})
}

func (h *GroupsHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req types.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	created, err := h.groups.Invite(r.Context(), userID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

func (h *GroupsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req types.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	// An accept can come back force-rejected; report the stored outcome
	// alongside the reason.
	updated, err := h.groups.RespondToRequest(r.Context(), userID, requestID, req.Accept)
	if err != nil {
		if updated != nil {
			writeJSON(w, types.HTTPStatus(err), types.APIResponse{
				Success: false,
				Data:    updated,
				Error:   types.FromAppError(err),
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: updated})
}

func (h *GroupsHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	items, err := h.groups.PendingRequests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

func (h *GroupsHandler) SentRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	items, err := h.groups.SentRequests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

func (h *GroupsHandler) SearchStudents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	items, err := h.groups.SearchStudents(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}
