package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

const walletColumns = "id, user_id, total_cents, pending_cents, available_cents, created_at, updated_at"

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.TotalCents, &w.PendingCents, &w.AvailableCents, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateTx inserts a zero-balance wallet inside the given transaction.
func (r *WalletRepo) CreateTx(ctx context.Context, tx pgx.Tx, w *models.Wallet) error {
	return tx.QueryRow(ctx, `
		INSERT INTO wallets (id, user_id, total_cents, pending_cents, available_cents)
		VALUES ($1, $2, 0, 0, 0)
		RETURNING created_at, updated_at
	`, w.ID, w.UserID).Scan(&w.CreatedAt, &w.UpdatedAt)
}

func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+` FROM wallets WHERE user_id = $1
	`, userID))
}

func (r *WalletRepo) GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Wallet, error) {
	return scanWallet(tx.QueryRow(ctx, `
		SELECT `+walletColumns+` FROM wallets WHERE user_id = $1
	`, userID))
}

// GetByIDForUpdate locks the wallet row. Call within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Wallet, error) {
	return scanWallet(tx.QueryRow(ctx, `
		SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE
	`, id))
}

// ApplyDeltas adjusts both balances and recomputes total = pending + available
// in the same statement. The conditions keep balances non-negative even if a
// caller skipped the locked pre-check. Call after GetByIDForUpdate in the same
// transaction.
func (r *WalletRepo) ApplyDeltas(ctx context.Context, tx pgx.Tx, id uuid.UUID, pendingDelta, availableDelta int64) (*models.Wallet, error) {
	return scanWallet(tx.QueryRow(ctx, `
		UPDATE wallets
		SET pending_cents = pending_cents + $2,
		    available_cents = available_cents + $3,
		    total_cents = pending_cents + $2 + available_cents + $3,
		    updated_at = now()
		WHERE id = $1 AND pending_cents + $2 >= 0 AND available_cents + $3 >= 0
		RETURNING `+walletColumns+`
	`, id, pendingDelta, availableDelta))
}

// CreateEntryTx inserts a wallet entry inside the given transaction.
func (r *WalletRepo) CreateEntryTx(ctx context.Context, tx pgx.Tx, e *models.WalletEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO wallet_entries (id, wallet_id, contract_id, entry_type, amount_cents, balance_after_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, e.ID, e.WalletID, e.ContractID, e.EntryType, e.AmountCents, e.BalanceAfterCents).Scan(&e.CreatedAt)
}

func (r *WalletRepo) ListEntriesByWalletID(ctx context.Context, walletID uuid.UUID) ([]*models.WalletEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, wallet_id, contract_id, entry_type, amount_cents, balance_after_cents, created_at
		FROM wallet_entries WHERE wallet_id = $1 ORDER BY created_at DESC
	`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WalletEntry
	for rows.Next() {
		var e models.WalletEntry
		if err := rows.Scan(&e.ID, &e.WalletID, &e.ContractID, &e.EntryType, &e.AmountCents, &e.BalanceAfterCents, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
