package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"` // 1..5
	CreatedAt  time.Time `json:"created_at"`
}
