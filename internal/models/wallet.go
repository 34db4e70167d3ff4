package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemWalletID is the platform-owned wallet that collects commission.
// Seeded by the schema, never deleted.
var SystemWalletID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Wallet entry_type enums. Every balance mutation records one entry per
// affected wallet.
const (
	WalletEntryDeposit        = "deposit"
	WalletEntryWithdrawal     = "withdrawal"
	WalletEntryEscrowPayment  = "escrow_payment"
	WalletEntryEarning        = "earning"
	WalletEntryCommission     = "commission"
	WalletEntryPendingRelease = "pending_release"
)

// Wallet holds a user's balances in cents. TotalCents is derived:
// total = pending + available, recomputed on every mutation. UserID is nil
// for the system wallet.
type Wallet struct {
	ID             uuid.UUID  `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	TotalCents     int64      `json:"total_cents"`
	PendingCents   int64      `json:"pending_cents"`
	AvailableCents int64      `json:"available_cents"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type WalletEntry struct {
	ID                uuid.UUID  `json:"id"`
	WalletID          uuid.UUID  `json:"wallet_id"`
	ContractID        *uuid.UUID `json:"contract_id,omitempty"`
	EntryType         string     `json:"entry_type"`
	AmountCents       int64      `json:"amount_cents"`
	BalanceAfterCents *int64     `json:"balance_after_cents,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
