package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContractStatus is a closed set. Status strings arriving over the API must
// go through ParseContractStatus; anything else is rejected at the boundary.
type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// ParseContractStatus validates a raw status string from the API.
func ParseContractStatus(s string) (ContractStatus, error) {
	switch ContractStatus(s) {
	case ContractStatusPending, ContractStatusCompleted, ContractStatusCancelled:
		return ContractStatus(s), nil
	}
	return "", fmt.Errorf("unknown contract status %q", s)
}

// Terminal reports whether no further transition is allowed.
func (s ContractStatus) Terminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusCancelled
}

type Contract struct {
	ID           uuid.UUID      `json:"id"`
	ClientID     uuid.UUID      `json:"client_id"`
	FreelancerID uuid.UUID      `json:"freelancer_id"`
	JobID        uuid.UUID      `json:"job_id"`
	AmountCents  int64          `json:"amount_cents"`
	DurationDays int            `json:"duration_days"`
	Status       ContractStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
