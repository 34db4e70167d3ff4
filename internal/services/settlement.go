package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigfolio/backend/internal/models"
)

// CommissionPolicy fixes the platform fee taken on settlement, in basis
// points per side. Rates are configuration, not constants: the business rule
// has shifted between 10%-freelancer-only, 5%/5%, and no commission, so the
// split must stay injectable.
type CommissionPolicy struct {
	ClientRateBps     int64
	FreelancerRateBps int64
}

// DefaultCommissionPolicy is the 5%/5% split.
var DefaultCommissionPolicy = CommissionPolicy{ClientRateBps: 500, FreelancerRateBps: 500}

// Fees returns the client-side and freelancer-side commission for an amount.
func (p CommissionPolicy) Fees(amountCents int64) (clientFee, freelancerFee int64) {
	return amountCents * p.ClientRateBps / 10000, amountCents * p.FreelancerRateBps / 10000
}

// SettlementWalletRepo is the minimal wallet repository interface for settlement.
type SettlementWalletRepo interface {
	GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Wallet, error)
	ApplyDeltas(ctx context.Context, tx pgx.Tx, id uuid.UUID, pendingDelta, availableDelta int64) (*models.Wallet, error)
	CreateEntryTx(ctx context.Context, tx pgx.Tx, e *models.WalletEntry) error
}

// SettlementEngine moves an escrow payout between three wallets: client
// available -> freelancer pending, commission -> system wallet available.
// Every mutation keeps total = pending + available and records one wallet
// entry per leg.
type SettlementEngine struct {
	Wallets SettlementWalletRepo
	Policy  CommissionPolicy
}

func NewSettlementEngine(wallets SettlementWalletRepo, policy CommissionPolicy) *SettlementEngine {
	return &SettlementEngine{Wallets: wallets, Policy: policy}
}

// Settle applies one payout inside the caller's transaction and returns the
// net amount credited to the freelancer's pending balance. All three wallet
// updates commit or roll back together. Locks wallet rows in deterministic
// UUID order so concurrent settlements against overlapping wallets serialize
// instead of deadlocking.
func (s *SettlementEngine) Settle(ctx context.Context, tx pgx.Tx, contractID, clientID, freelancerID uuid.UUID, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, fmt.Errorf("settle: amount must be > 0, got %d", amountCents)
	}

	clientWallet, err := s.Wallets.GetByUserIDTx(ctx, tx, clientID)
	if err != nil {
		return 0, mapNoRows(err)
	}
	freelancerWallet, err := s.Wallets.GetByUserIDTx(ctx, tx, freelancerID)
	if err != nil {
		return 0, mapNoRows(err)
	}

	clientFee, freelancerFee := s.Policy.Fees(amountCents)

	// Lock all affected wallets in deterministic order (by UUID).
	ids := []uuid.UUID{clientWallet.ID, freelancerWallet.ID, models.SystemWalletID}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	locked := make(map[uuid.UUID]*models.Wallet, len(ids))
	for _, id := range ids {
		w, err := s.Wallets.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return 0, mapNoRows(err)
		}
		locked[id] = w
	}

	if locked[clientWallet.ID].AvailableCents < amountCents+clientFee {
		return 0, ErrInsufficientFunds
	}

	// Debit client available by amount + client-side fee.
	w, err := s.Wallets.ApplyDeltas(ctx, tx, clientWallet.ID, 0, -(amountCents + clientFee))
	if err != nil {
		return 0, err
	}
	if err := s.Wallets.CreateEntryTx(ctx, tx, &models.WalletEntry{
		ID: uuid.New(), WalletID: clientWallet.ID, ContractID: &contractID,
		EntryType: models.WalletEntryEscrowPayment, AmountCents: amountCents + clientFee,
		BalanceAfterCents: int64Ptr(w.TotalCents),
	}); err != nil {
		return 0, err
	}

	// Credit freelancer pending by amount - freelancer-side fee.
	net := amountCents - freelancerFee
	w, err = s.Wallets.ApplyDeltas(ctx, tx, freelancerWallet.ID, net, 0)
	if err != nil {
		return 0, err
	}
	if err := s.Wallets.CreateEntryTx(ctx, tx, &models.WalletEntry{
		ID: uuid.New(), WalletID: freelancerWallet.ID, ContractID: &contractID,
		EntryType: models.WalletEntryEarning, AmountCents: net,
		BalanceAfterCents: int64Ptr(w.TotalCents),
	}); err != nil {
		return 0, err
	}

	// Credit system wallet with the total commission.
	if commission := clientFee + freelancerFee; commission > 0 {
		w, err = s.Wallets.ApplyDeltas(ctx, tx, models.SystemWalletID, 0, commission)
		if err != nil {
			return 0, err
		}
		if err := s.Wallets.CreateEntryTx(ctx, tx, &models.WalletEntry{
			ID: uuid.New(), WalletID: models.SystemWalletID, ContractID: &contractID,
			EntryType: models.WalletEntryCommission, AmountCents: commission,
			BalanceAfterCents: int64Ptr(w.TotalCents),
		}); err != nil {
			return 0, err
		}
	}
	return net, nil
}

// ReleasePending moves a cleared earning from the freelancer's pending
// balance to available. Called by the clearance worker after the hold period.
func (s *SettlementEngine) ReleasePending(ctx context.Context, tx pgx.Tx, contractID, freelancerID uuid.UUID, amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("release: amount must be > 0, got %d", amountCents)
	}
	wallet, err := s.Wallets.GetByUserIDTx(ctx, tx, freelancerID)
	if err != nil {
		return mapNoRows(err)
	}
	locked, err := s.Wallets.GetByIDForUpdate(ctx, tx, wallet.ID)
	if err != nil {
		return mapNoRows(err)
	}
	if locked.PendingCents < amountCents {
		// Already released (duplicate delivery). Safe to drop.
		return nil
	}
	w, err := s.Wallets.ApplyDeltas(ctx, tx, wallet.ID, -amountCents, amountCents)
	if err != nil {
		return err
	}
	return s.Wallets.CreateEntryTx(ctx, tx, &models.WalletEntry{
		ID: uuid.New(), WalletID: wallet.ID, ContractID: &contractID,
		EntryType: models.WalletEntryPendingRelease, AmountCents: amountCents,
		BalanceAfterCents: int64Ptr(w.TotalCents),
	})
}

func int64Ptr(n int64) *int64 { return &n }
