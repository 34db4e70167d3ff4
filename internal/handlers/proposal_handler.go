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
	"github.com/gigfolio/backend/internal/services"
)

// ProposalHandler serves proposal submission and the acceptance flow.
type ProposalHandler struct {
	Proposals  *repository.ProposalRepo
	Jobs       *repository.JobPostRepo
	Acceptance *services.AcceptanceFlow
	Logger     *slog.Logger
}

type submitProposalRequest struct {
	CoverLetter  string `json:"cover_letter"`
	AmountCents  int64  `json:"amount_cents"`
	DurationDays int    `json:"duration_days"`
}

// SubmitProposal handles POST /api/v1/jobs/{jobID}/proposals (freelancers only).
func (h *ProposalHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
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
	var req submitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CoverLetter == "" || req.AmountCents <= 0 || req.DurationDays <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid required fields")
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
	if job.Status != models.JobStatusOpen {
		writeError(w, http.StatusConflict, "job is not open for proposals")
		return
	}

	p := &models.Proposal{
		ID:           uuid.New(),
		JobID:        jobID,
		FreelancerID: id.UserID,
		CoverLetter:  req.CoverLetter,
		AmountCents:  req.AmountCents,
		DurationDays: req.DurationDays,
		Status:       models.ProposalStatusSubmitted,
	}
	if err := h.Proposals.Create(r.Context(), p); err != nil {
		h.Logger.Error("create proposal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListForJob handles GET /api/v1/jobs/{jobID}/proposals (job owner).
func (h *ProposalHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
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
	proposals, err := h.Proposals.ListByJobID(r.Context(), jobID)
	if err != nil {
		h.Logger.Error("list proposals", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": len(proposals), "data": proposals})
}

// ListMine handles GET /api/v1/proposals (freelancers only).
func (h *ProposalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	proposals, err := h.Proposals.ListByFreelancerID(r.Context(), id.UserID)
	if err != nil {
		h.Logger.Error("list freelancer proposals", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": len(proposals), "data": proposals})
}

type updateProposalRequest struct {
	CoverLetter  string `json:"cover_letter"`
	AmountCents  int64  `json:"amount_cents"`
	DurationDays int    `json:"duration_days"`
}

// UpdateProposal handles PATCH /api/v1/proposals/{proposalID} (owner, while submitted).
func (h *ProposalHandler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	proposalID, ok := pathUUID(r, "proposalID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	p, err := h.Proposals.GetByID(r.Context(), proposalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "proposal not found")
			return
		}
		h.Logger.Error("get proposal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p.FreelancerID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if p.Status != models.ProposalStatusSubmitted {
		writeError(w, http.StatusConflict, "proposal is no longer editable")
		return
	}
	var req updateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CoverLetter != "" {
		p.CoverLetter = req.CoverLetter
	}
	if req.AmountCents > 0 {
		p.AmountCents = req.AmountCents
	}
	if req.DurationDays > 0 {
		p.DurationDays = req.DurationDays
	}
	if err := h.Proposals.Update(r.Context(), p); err != nil {
		h.Logger.Error("update proposal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// WithdrawProposal handles DELETE /api/v1/proposals/{proposalID} (owner, while submitted).
func (h *ProposalHandler) WithdrawProposal(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	proposalID, ok := pathUUID(r, "proposalID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	p, err := h.Proposals.GetByID(r.Context(), proposalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "proposal not found")
			return
		}
		h.Logger.Error("get proposal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p.FreelancerID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if p.Status != models.ProposalStatusSubmitted {
		writeError(w, http.StatusConflict, "proposal can no longer be withdrawn")
		return
	}
	if err := h.Proposals.Delete(r.Context(), proposalID); err != nil {
		h.Logger.Error("delete proposal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptProposal handles POST /api/v1/proposals/{proposalID}/accept (clients only).
// Creates the contract and moves the job to in_progress.
func (h *ProposalHandler) AcceptProposal(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	proposalID, ok := pathUUID(r, "proposalID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	contract, err := h.Acceptance.Accept(r.Context(), id.UserID, proposalID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}
