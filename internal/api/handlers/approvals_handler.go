package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

type ApprovalsHandler struct {
	approvals services.ApprovalService
	roles     services.RoleService
	validate  interface{ Struct(any) error }
}

func NewApprovalsHandler(approvals services.ApprovalService, roles services.RoleService, v interface{ Struct(any) error }) *ApprovalsHandler {
	return &ApprovalsHandler{approvals: approvals, roles: roles, validate: v}
}

// Request files the group's approval request. Repeats report the existing
// record with a conflict status instead of creating duplicates.
func (h *ApprovalsHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req types.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	coordinatorID, err := uuid.Parse(req.CoordinatorID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid coordinator id")
		return
	}

	approval, err := h.approvals.RequestApproval(r.Context(), userID, coordinatorID)
	if err != nil {
		if approval != nil {
			writeJSON(w, types.HTTPStatus(err), types.APIResponse{
				Success: false,
				Data:    approval,
				Error:   types.FromAppError(err),
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: approval})
}

func (h *ApprovalsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleCoordinator); err != nil {
		writeError(w, err)
		return
	}
	approvalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid approval id")
		return
	}

	var req types.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	approval, err := h.approvals.Decide(r.Context(), userID, approvalID, req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: approval})
}

func (h *ApprovalsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleCoordinator); err != nil {
		writeError(w, err)
		return
	}
	dashboard, err := h.approvals.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: dashboard})
}

// ListCoordinators is the directory students pick a coordinator from.
func (h *ApprovalsHandler) ListCoordinators(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUserID(w, r); !ok {
		return
	}
	items, err := h.approvals.ListCoordinators(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}
