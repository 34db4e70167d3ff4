package models

import (
	"time"

	"github.com/google/uuid"
)

// User role enums. Admin accounts are out of scope; the stats overview is
// readable by any authenticated user.
const (
	UserRoleClient     = "client"
	UserRoleFreelancer = "freelancer"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
