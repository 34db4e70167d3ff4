package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gigfolio/backend/internal/middleware"
	"github.com/gigfolio/backend/internal/models"
	"github.com/gigfolio/backend/internal/repository"
)

// ReviewHandler serves reviews. A review requires a completed contract
// between the two users.
type ReviewHandler struct {
	Reviews   *repository.ReviewRepo
	Contracts *repository.ContractRepo
	Logger    *slog.Logger
}

type createReviewRequest struct {
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
}

// CreateReview handles POST /api/v1/reviews.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.RevieweeID == uuid.Nil || req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "reviewee_id and a rating between 1 and 5 are required")
		return
	}
	if req.RevieweeID == id.UserID {
		writeError(w, http.StatusBadRequest, "cannot review yourself")
		return
	}

	eligible, err := h.Contracts.CompletedExistsBetween(r.Context(), id.UserID, req.RevieweeID)
	if err != nil {
		h.Logger.Error("check review eligibility", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !eligible {
		writeError(w, http.StatusForbidden, "no completed contract with this user")
		return
	}

	rev := &models.Review{
		ID:         uuid.New(),
		ReviewerID: id.UserID,
		RevieweeID: req.RevieweeID,
		Comment:    req.Comment,
		Rating:     req.Rating,
	}
	if err := h.Reviews.Create(r.Context(), rev); err != nil {
		h.Logger.Error("create review", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

// ListReviews handles GET /api/v1/users/{userID}/reviews. Public.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	reviews, err := h.Reviews.ListByRevieweeID(r.Context(), userID)
	if err != nil {
		h.Logger.Error("list reviews", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	avg, err := h.Reviews.AverageRating(r.Context(), userID)
	if err != nil {
		h.Logger.Error("average rating", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results":        len(reviews),
		"average_rating": avg,
		"data":           reviews,
	})
}
