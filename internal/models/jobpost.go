package models

import (
	"time"

	"github.com/google/uuid"
)

// Job post status enums. Status moves in lockstep with proposal/contract
// transitions: open -> in_progress on acceptance, in_progress -> completed on
// contract completion, in_progress -> open on cancellation.
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

type JobPost struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"client_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	BudgetCents  int64     `json:"budget_cents"`
	DurationDays int       `json:"duration_days"`
	Skills       []string  `json:"skills"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	// ProposalCount is populated only by browse queries.
	ProposalCount int       `json:"proposal_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
