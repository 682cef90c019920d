package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/services"
)

type AbstractsHandler struct {
	abstracts      services.AbstractService
	roles          services.RoleService
	maxUploadBytes int64
}

func NewAbstractsHandler(abstracts services.AbstractService, roles services.RoleService, maxUploadBytes int64) *AbstractsHandler {
	return &AbstractsHandler{abstracts: abstracts, roles: roles, maxUploadBytes: maxUploadBytes}
}

// Submit takes a multipart form with title, abstract_text and a pdf file.
// The body is capped slightly above the PDF limit so oversized uploads
// fail fast instead of buffering.
func (h *AbstractsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "pdf file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "could not read pdf file")
		return
	}

	created, err := h.abstracts.Submit(r.Context(), userID, services.SubmitAbstractInput{
		Title:        r.FormValue("title"),
		AbstractText: r.FormValue("abstract_text"),
		PDFFilename:  header.Filename,
		PDFData:      data,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

func (h *AbstractsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireStudent(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	items, err := h.abstracts.ListForGroupMember(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

func (h *AbstractsHandler) GuideReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleGuide); err != nil {
		writeError(w, err)
		return
	}
	abstractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid abstract id")
		return
	}

	var req types.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := h.abstracts.GuideReview(r.Context(), userID, abstractID, req.Approve, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: updated})
}

func (h *AbstractsHandler) CoordinatorReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleCoordinator); err != nil {
		writeError(w, err)
		return
	}
	abstractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid abstract id")
		return
	}

	var req types.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := h.abstracts.CoordinatorReview(r.Context(), userID, abstractID, req.Approve, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: updated})
}

func (h *AbstractsHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.roles.RequireFaculty(r.Context(), userID, activeRole(r), services.ActiveRoleGuide); err != nil {
		writeError(w, err)
		return
	}
	queue, err := h.abstracts.ReviewQueue(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: queue})
}

func (h *AbstractsHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	abstractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid abstract id")
		return
	}

	f, err := h.abstracts.Download(r.Context(), userID, abstractID)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := f.Filename
	if filename == "" {
		filename = "abstract.pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	_, _ = w.Write(f.Data)
}
