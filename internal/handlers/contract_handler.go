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

// ContractHandler serves the contract lifecycle. All state changes go through
// the manager; reads hit the repository directly.
type ContractHandler struct {
	Manager   *services.ContractManager
	Contracts *repository.ContractRepo
	Logger    *slog.Logger
}

type createContractRequest struct {
	FreelancerID uuid.UUID `json:"freelancer_id"`
	JobID        uuid.UUID `json:"job_id"`
	AmountCents  int64     `json:"amount_cents"`
	DurationDays int       `json:"duration_days"`
}

// CreateContract handles POST /api/v1/contracts (clients only). Direct hires
// that bypass the proposal flow still land here.
func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FreelancerID == uuid.Nil || req.JobID == uuid.Nil || req.AmountCents <= 0 || req.DurationDays <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid required fields")
		return
	}
	contract, err := h.Manager.Create(r.Context(), id.UserID, req.FreelancerID, req.JobID, req.AmountCents, req.DurationDays)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

// GetContract handles GET /api/v1/contracts/{contractID}. Only the two
// parties may read it.
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contractID, ok := pathUUID(r, "contractID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.Contracts.GetByID(r.Context(), contractID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "contract not found")
			return
		}
		h.Logger.Error("get contract", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contract.ClientID != id.UserID && contract.FreelancerID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// ListMyContracts handles GET /api/v1/contracts, scoped by the caller's role.
func (h *ContractHandler) ListMyContracts(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var (
		contracts []*models.Contract
		err       error
	)
	if id.Role == models.UserRoleClient {
		contracts, err = h.Contracts.ListByClientID(r.Context(), id.UserID)
	} else {
		contracts, err = h.Contracts.ListByFreelancerID(r.Context(), id.UserID)
	}
	if err != nil {
		h.Logger.Error("list contracts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": len(contracts), "data": contracts})
}

type updateContractStatusRequest struct {
	Status string `json:"status"`
}

// UpdateContractStatus handles PATCH /api/v1/contracts/{contractID}. The
// client party drives both transitions; completion pays the freelancer.
func (h *ContractHandler) UpdateContractStatus(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contractID, ok := pathUUID(r, "contractID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid contract id")
		return
	}
	var req updateContractStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	status, err := models.ParseContractStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.Contracts.GetByID(r.Context(), contractID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "contract not found")
			return
		}
		h.Logger.Error("get contract", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contract.ClientID != id.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	updated, err := h.Manager.UpdateStatus(r.Context(), contractID, status)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
