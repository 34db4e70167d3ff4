package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gigfolio/backend/internal/models"
)

// WalletService covers the direct wallet operations: balance reads, deposits,
// withdrawals, and raw balance adjustments. Settlement goes through the
// SettlementEngine instead.
type WalletService struct {
	pool    TxBeginner
	wallets SettlementWalletRepo
	reader  WalletReader
	log     *slog.Logger
}

// WalletReader covers the non-transactional read paths.
type WalletReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ListEntriesByWalletID(ctx context.Context, walletID uuid.UUID) ([]*models.WalletEntry, error)
}

func NewWalletService(pool TxBeginner, wallets SettlementWalletRepo, reader WalletReader, log *slog.Logger) *WalletService {
	if log == nil {
		log = slog.Default()
	}
	return &WalletService{pool: pool, wallets: wallets, reader: reader, log: log}
}

// Get returns the caller's wallet.
func (s *WalletService) Get(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	w, err := s.reader.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return w, nil
}

// Statement returns the wallet's entries, newest first.
func (s *WalletService) Statement(ctx context.Context, userID uuid.UUID) ([]*models.WalletEntry, error) {
	w, err := s.reader.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return s.reader.ListEntriesByWalletID(ctx, w.ID)
}

// Deposit credits the available balance.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amountCents int64) (*models.Wallet, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("deposit amount must be > 0, got %d", amountCents)
	}
	return s.mutate(ctx, userID, 0, amountCents, models.WalletEntryDeposit)
}

// Withdraw debits the available balance; pending funds cannot be withdrawn.
func (s *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, amountCents int64) (*models.Wallet, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be > 0, got %d", amountCents)
	}
	return s.mutate(ctx, userID, 0, -amountCents, models.WalletEntryWithdrawal)
}

// Adjust applies arbitrary deltas to both balances. The total is recomputed
// from pending + available on write; negative results are rejected. Callers
// cannot drain pending: that would release escrowed funds ahead of clearance,
// which only the release worker may do.
func (s *WalletService) Adjust(ctx context.Context, userID uuid.UUID, pendingDelta, availableDelta int64) (*models.Wallet, error) {
	if pendingDelta == 0 && availableDelta == 0 {
		return s.Get(ctx, userID)
	}
	if pendingDelta < 0 {
		return nil, fmt.Errorf("%w: pending funds are released after clearance, not by adjustment", ErrForbidden)
	}
	entryType := models.WalletEntryDeposit
	if pendingDelta+availableDelta < 0 {
		entryType = models.WalletEntryWithdrawal
	}
	return s.mutate(ctx, userID, pendingDelta, availableDelta, entryType)
}

func (s *WalletService) mutate(ctx context.Context, userID uuid.UUID, pendingDelta, availableDelta int64, entryType string) (*models.Wallet, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	wallet, err := s.wallets.GetByUserIDTx(ctx, tx, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	locked, err := s.wallets.GetByIDForUpdate(ctx, tx, wallet.ID)
	if err != nil {
		return nil, err
	}
	if locked.PendingCents+pendingDelta < 0 || locked.AvailableCents+availableDelta < 0 {
		return nil, ErrInsufficientFunds
	}
	updated, err := s.wallets.ApplyDeltas(ctx, tx, wallet.ID, pendingDelta, availableDelta)
	if err != nil {
		return nil, err
	}

	amount := pendingDelta + availableDelta
	if amount < 0 {
		amount = -amount
	}
	if err := s.wallets.CreateEntryTx(ctx, tx, &models.WalletEntry{
		ID: uuid.New(), WalletID: wallet.ID,
		EntryType: entryType, AmountCents: amount,
		BalanceAfterCents: int64Ptr(updated.TotalCents),
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}
