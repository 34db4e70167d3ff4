package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gigfolio/backend/internal/models"
)

func TestSettleSplitsCommission(t *testing.T) {
	wallets := newMockWalletRepo()
	clientID, freelancerID := uuid.New(), uuid.New()
	client := wallets.add(clientID, 0, 100_000)
	freelancer := wallets.add(freelancerID, 0, 0)

	engine := NewSettlementEngine(wallets, DefaultCommissionPolicy)
	before := wallets.totalAcrossWallets()

	contractID := uuid.New()
	net, err := engine.Settle(context.Background(), noopTx{}, contractID, clientID, freelancerID, 10_000)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if net != 9_500 {
		t.Fatalf("net = %d, want 9500", net)
	}

	// 5% each side: client pays 10500, freelancer receives 9500, platform keeps 1000.
	if got := client.AvailableCents; got != 89_500 {
		t.Errorf("client available = %d, want 89500", got)
	}
	if got := freelancer.PendingCents; got != 9_500 {
		t.Errorf("freelancer pending = %d, want 9500", got)
	}
	if got := wallets.wallets[models.SystemWalletID].AvailableCents; got != 1_000 {
		t.Errorf("system available = %d, want 1000", got)
	}

	// No money created or destroyed.
	if after := wallets.totalAcrossWallets(); after != before {
		t.Errorf("total across wallets changed: %d -> %d", before, after)
	}
	for _, w := range wallets.wallets {
		if w.TotalCents != w.PendingCents+w.AvailableCents {
			t.Errorf("wallet %s: total %d != pending %d + available %d", w.ID, w.TotalCents, w.PendingCents, w.AvailableCents)
		}
	}

	if len(wallets.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(wallets.entries))
	}
	types := map[string]bool{}
	for _, e := range wallets.entries {
		types[e.EntryType] = true
		if e.ContractID == nil || *e.ContractID != contractID {
			t.Errorf("entry %s missing contract reference", e.EntryType)
		}
	}
	for _, want := range []string{models.WalletEntryEscrowPayment, models.WalletEntryEarning, models.WalletEntryCommission} {
		if !types[want] {
			t.Errorf("missing %s entry", want)
		}
	}
}

func TestSettleInsufficientFunds(t *testing.T) {
	wallets := newMockWalletRepo()
	clientID, freelancerID := uuid.New(), uuid.New()
	// 10000 available cannot cover 10000 + 500 client fee.
	client := wallets.add(clientID, 0, 10_000)
	freelancer := wallets.add(freelancerID, 0, 0)

	engine := NewSettlementEngine(wallets, DefaultCommissionPolicy)
	_, err := engine.Settle(context.Background(), noopTx{}, uuid.New(), clientID, freelancerID, 10_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// Nothing moved, nothing recorded.
	if client.AvailableCents != 10_000 || freelancer.PendingCents != 0 {
		t.Errorf("balances mutated on failed settlement: client=%d freelancer=%d", client.AvailableCents, freelancer.PendingCents)
	}
	if len(wallets.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(wallets.entries))
	}
}

func TestSettleExactBalance(t *testing.T) {
	wallets := newMockWalletRepo()
	clientID, freelancerID := uuid.New(), uuid.New()
	client := wallets.add(clientID, 0, 10_500)
	wallets.add(freelancerID, 0, 0)

	engine := NewSettlementEngine(wallets, DefaultCommissionPolicy)
	if _, err := engine.Settle(context.Background(), noopTx{}, uuid.New(), clientID, freelancerID, 10_000); err != nil {
		t.Fatalf("Settle with exact balance: %v", err)
	}
	if client.AvailableCents != 0 {
		t.Errorf("client available = %d, want 0", client.AvailableCents)
	}
}

func TestSettleZeroCommission(t *testing.T) {
	wallets := newMockWalletRepo()
	clientID, freelancerID := uuid.New(), uuid.New()
	wallets.add(clientID, 0, 50_000)
	freelancer := wallets.add(freelancerID, 0, 0)

	engine := NewSettlementEngine(wallets, CommissionPolicy{})
	net, err := engine.Settle(context.Background(), noopTx{}, uuid.New(), clientID, freelancerID, 10_000)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if net != 10_000 {
		t.Fatalf("net = %d, want 10000", net)
	}
	if freelancer.PendingCents != 10_000 {
		t.Errorf("freelancer pending = %d, want 10000", freelancer.PendingCents)
	}
	if got := wallets.wallets[models.SystemWalletID].TotalCents; got != 0 {
		t.Errorf("system wallet credited %d with zero commission", got)
	}
	// Only two legs without a commission entry.
	if len(wallets.entries) != 2 {
		t.Errorf("entries = %d, want 2", len(wallets.entries))
	}
}

func TestSettleMissingWallet(t *testing.T) {
	wallets := newMockWalletRepo()
	clientID, freelancerID := uuid.New(), uuid.New()
	client := wallets.add(clientID, 0, 50_000)
	// No freelancer wallet exists.

	engine := NewSettlementEngine(wallets, DefaultCommissionPolicy)
	_, err := engine.Settle(context.Background(), noopTx{}, uuid.New(), clientID, freelancerID, 10_000)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing freelancer wallet: err = %v, want ErrNotFound", err)
	}
	if client.AvailableCents != 50_000 {
		t.Errorf("client balance mutated: %d", client.AvailableCents)
	}

	_, err = engine.Settle(context.Background(), noopTx{}, uuid.New(), uuid.New(), freelancerID, 10_000)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing client wallet: err = %v, want ErrNotFound", err)
	}
}

func TestReleasePendingMissingWallet(t *testing.T) {
	engine := NewSettlementEngine(newMockWalletRepo(), DefaultCommissionPolicy)
	err := engine.ReleasePending(context.Background(), noopTx{}, uuid.New(), uuid.New(), 1_000)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSettleRejectsNonPositiveAmount(t *testing.T) {
	engine := NewSettlementEngine(newMockWalletRepo(), DefaultCommissionPolicy)
	if _, err := engine.Settle(context.Background(), noopTx{}, uuid.New(), uuid.New(), uuid.New(), 0); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestReleasePending(t *testing.T) {
	wallets := newMockWalletRepo()
	freelancerID := uuid.New()
	freelancer := wallets.add(freelancerID, 9_500, 0)

	engine := NewSettlementEngine(wallets, DefaultCommissionPolicy)
	contractID := uuid.New()
	if err := engine.ReleasePending(context.Background(), noopTx{}, contractID, freelancerID, 9_500); err != nil {
		t.Fatalf("ReleasePending: %v", err)
	}
	if freelancer.PendingCents != 0 || freelancer.AvailableCents != 9_500 {
		t.Fatalf("balances = pending %d / available %d, want 0 / 9500", freelancer.PendingCents, freelancer.AvailableCents)
	}
	if freelancer.TotalCents != 9_500 {
		t.Errorf("total changed on release: %d", freelancer.TotalCents)
	}

	// Duplicate delivery: pending no longer covers the amount, drop silently.
	if err := engine.ReleasePending(context.Background(), noopTx{}, contractID, freelancerID, 9_500); err != nil {
		t.Fatalf("duplicate ReleasePending: %v", err)
	}
	if freelancer.AvailableCents != 9_500 {
		t.Errorf("duplicate release mutated balance: %d", freelancer.AvailableCents)
	}
	if len(wallets.entries) != 1 {
		t.Errorf("entries = %d, want 1", len(wallets.entries))
	}
}

func TestCommissionPolicyFees(t *testing.T) {
	cases := []struct {
		policy                    CommissionPolicy
		amount, client, freelance int64
	}{
		{DefaultCommissionPolicy, 10_000, 500, 500},
		{DefaultCommissionPolicy, 99, 4, 4}, // truncates toward zero
		{CommissionPolicy{ClientRateBps: 0, FreelancerRateBps: 1000}, 10_000, 0, 1_000},
		{CommissionPolicy{}, 10_000, 0, 0},
	}
	for _, tc := range cases {
		c, f := tc.policy.Fees(tc.amount)
		if c != tc.client || f != tc.freelance {
			t.Errorf("Fees(%d) with %+v = (%d, %d), want (%d, %d)", tc.amount, tc.policy, c, f, tc.client, tc.freelance)
		}
	}
}
