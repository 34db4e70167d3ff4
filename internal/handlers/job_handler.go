package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigfolio/backend/internal/middleware"
	"github.com/gigfolio/backend/internal/models"
	"github.com/gigfolio/backend/internal/repository"
)

// JobHandler serves job post CRUD. Status changes never go through here;
// they are driven by the proposal/contract flows.
type JobHandler struct {
	Jobs   *repository.JobPostRepo
	Logger *slog.Logger
}

type createJobRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	BudgetCents  int64    `json:"budget_cents"`
	DurationDays int      `json:"duration_days"`
	Skills       []string `json:"skills"`
	Category     string   `json:"category"`
}

// CreateJob handles POST /api/v1/jobs (clients only).
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == "" || req.Description == "" || req.Category == "" || req.BudgetCents <= 0 || req.DurationDays <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid required fields")
		return
	}
	job := &models.JobPost{
		ID:           uuid.New(),
		ClientID:     id.UserID,
		Title:        req.Title,
		Description:  req.Description,
		BudgetCents:  req.BudgetCents,
		DurationDays: req.DurationDays,
		Skills:       req.Skills,
		Category:     req.Category,
		Status:       models.JobStatusOpen,
	}
	if err := h.Jobs.Create(r.Context(), job); err != nil {
		h.Logger.Error("create job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// BrowseJobs handles GET /api/v1/jobs — open posts with proposal counts.
func (h *JobHandler) BrowseJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Jobs.ListOpen(r.Context())
	if err != nil {
		h.Logger.Error("list open jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": len(jobs), "data": jobs})
}

// GetJob handles GET /api/v1/jobs/{jobID}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathUUID(r, "jobID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := h.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "job post not found")
			return
		}
		h.Logger.Error("get job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// ListMyJobs handles GET /api/v1/jobs/mine (clients only).
func (h *JobHandler) ListMyJobs(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobs, err := h.Jobs.ListByClientID(r.Context(), id.UserID)
	if err != nil {
		h.Logger.Error("list client jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": len(jobs), "data": jobs})
}

// UpdateJob handles PATCH /api/v1/jobs/{jobID} (owner only).
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobID, ok := pathUUID(r, "jobID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := h.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "job post not found")
			return
		}
		h.Logger.Error("get job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if job.ClientID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.BudgetCents > 0 {
		job.BudgetCents = req.BudgetCents
	}
	if req.DurationDays > 0 {
		job.DurationDays = req.DurationDays
	}
	if req.Skills != nil {
		job.Skills = req.Skills
	}
	if req.Category != "" {
		job.Category = req.Category
	}
	if err := h.Jobs.Update(r.Context(), job); err != nil {
		h.Logger.Error("update job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// DeleteJob handles DELETE /api/v1/jobs/{jobID} (owner only).
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobID, ok := pathUUID(r, "jobID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := h.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "job post not found")
			return
		}
		h.Logger.Error("get job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if job.ClientID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.Jobs.Delete(r.Context(), jobID); err != nil {
		h.Logger.Error("delete job post", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
