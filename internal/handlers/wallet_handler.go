package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gigfolio/backend/internal/middleware"
	"github.com/gigfolio/backend/internal/services"
)

// WalletHandler serves the caller's own wallet.
type WalletHandler struct {
	Wallets *services.WalletService
	Logger  *slog.Logger
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	wallet, err := h.Wallets.Get(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// GetStatement handles GET /api/v1/wallet/entries.
func (h *WalletHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	entries, err := h.Wallets.Statement(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type amountRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, true)
}

// Withdraw handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, false)
}

func (h *WalletHandler) mutation(w http.ResponseWriter, r *http.Request, deposit bool) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents must be > 0")
		return
	}
	var err error
	var wallet interface{}
	if deposit {
		wallet, err = h.Wallets.Deposit(r.Context(), id.UserID, req.AmountCents)
	} else {
		wallet, err = h.Wallets.Withdraw(r.Context(), id.UserID, req.AmountCents)
	}
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

type adjustRequest struct {
	PendingDeltaCents   int64 `json:"pending_delta_cents"`
	AvailableDeltaCents int64 `json:"available_delta_cents"`
}

// Adjust handles PATCH /api/v1/wallet. The total is always recomputed from
// pending + available; callers cannot set it directly, and pending can only
// grow — draining it is the release worker's job.
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	wallet, err := h.Wallets.Adjust(r.Context(), id.UserID, req.PendingDeltaCents, req.AvailableDeltaCents)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}
