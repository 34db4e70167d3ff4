package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gigfolio/backend/internal/models"
)

func newWalletFixture(t *testing.T) (*WalletService, *mockWalletRepo, uuid.UUID) {
	t.Helper()
	wallets := newMockWalletRepo()
	userID := uuid.New()
	wallets.add(userID, 0, 0)
	return NewWalletService(mockPool{}, wallets, wallets, nil), wallets, userID
}

func TestDepositAndWithdraw(t *testing.T) {
	svc, _, userID := newWalletFixture(t)
	ctx := context.Background()

	w, err := svc.Deposit(ctx, userID, 5_000)
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if w.AvailableCents != 5_000 || w.TotalCents != 5_000 {
		t.Fatalf("after deposit: available %d total %d, want 5000/5000", w.AvailableCents, w.TotalCents)
	}

	w, err = svc.Withdraw(ctx, userID, 2_000)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if w.AvailableCents != 3_000 {
		t.Fatalf("after withdraw: available %d, want 3000", w.AvailableCents)
	}

	entries, err := svc.Statement(ctx, userID)
	if err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].EntryType != models.WalletEntryDeposit || entries[1].EntryType != models.WalletEntryWithdrawal {
		t.Errorf("entry types = %s, %s", entries[0].EntryType, entries[1].EntryType)
	}
	if entries[1].BalanceAfterCents == nil || *entries[1].BalanceAfterCents != 3_000 {
		t.Errorf("withdrawal balance_after = %v, want 3000", entries[1].BalanceAfterCents)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, _, userID := newWalletFixture(t)
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, userID, 1_000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	_, err := svc.Withdraw(ctx, userID, 1_001)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestWithdrawCannotSpendPending(t *testing.T) {
	wallets := newMockWalletRepo()
	userID := uuid.New()
	wallets.add(userID, 5_000, 0)
	svc := NewWalletService(mockPool{}, wallets, wallets, nil)

	_, err := svc.Withdraw(context.Background(), userID, 1_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestAdjustRecomputesTotal(t *testing.T) {
	svc, _, userID := newWalletFixture(t)

	w, err := svc.Adjust(context.Background(), userID, 1_000, 2_000)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if w.PendingCents != 1_000 || w.AvailableCents != 2_000 || w.TotalCents != 3_000 {
		t.Fatalf("after adjust: %d/%d/%d, want 1000/2000/3000", w.PendingCents, w.AvailableCents, w.TotalCents)
	}

	// Negative available adjustments are bounded at zero.
	_, err = svc.Adjust(context.Background(), userID, 0, -3_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestAdjustCannotReleasePending(t *testing.T) {
	wallets := newMockWalletRepo()
	userID := uuid.New()
	w := wallets.add(userID, 9_500, 0)
	svc := NewWalletService(mockPool{}, wallets, wallets, nil)

	// Draining pending into available would bypass the clearance period.
	_, err := svc.Adjust(context.Background(), userID, -9_500, 9_500)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if w.PendingCents != 9_500 || w.AvailableCents != 0 {
		t.Errorf("balances mutated: pending %d available %d", w.PendingCents, w.AvailableCents)
	}
	if len(wallets.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(wallets.entries))
	}
}

func TestWalletUnknownUser(t *testing.T) {
	svc, _, _ := newWalletFixture(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
