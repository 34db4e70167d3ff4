package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Create(ctx context.Context, rev *models.Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, reviewer_id, reviewee_id, comment, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, rev.ID, rev.ReviewerID, rev.RevieweeID, rev.Comment, rev.Rating).Scan(&rev.CreatedAt)
}

func (r *ReviewRepo) ListByRevieweeID(ctx context.Context, revieweeID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, reviewer_id, reviewee_id, comment, rating, created_at
		FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC
	`, revieweeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.ReviewerID, &rev.RevieweeID, &rev.Comment, &rev.Rating, &rev.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &rev)
	}
	return list, rows.Err()
}

// AverageRating returns the mean rating for a user, or 0 with no reviews.
func (r *ReviewRepo) AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviewee_id = $1
	`, revieweeID).Scan(&avg)
	return avg, err
}
