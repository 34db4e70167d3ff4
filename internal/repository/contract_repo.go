package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

const contractColumns = "id, client_id, freelancer_id, job_id, amount_cents, duration_days, status, created_at, updated_at"

type ContractRepo struct {
	pool *pgxpool.Pool
}

func NewContractRepo(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	err := row.Scan(&c.ID, &c.ClientID, &c.FreelancerID, &c.JobID, &c.AmountCents, &c.DurationDays, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepo) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Contract) error {
	return tx.QueryRow(ctx, `
		INSERT INTO contracts (id, client_id, freelancer_id, job_id, amount_cents, duration_days, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, c.ID, c.ClientID, c.FreelancerID, c.JobID, c.AmountCents, c.DurationDays, c.Status).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *ContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return scanContract(r.pool.QueryRow(ctx, `
		SELECT `+contractColumns+` FROM contracts WHERE id = $1
	`, id))
}

// GetByIDForUpdate locks the contract row. Call within a transaction.
func (r *ContractRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Contract, error) {
	return scanContract(tx.QueryRow(ctx, `
		SELECT `+contractColumns+` FROM contracts WHERE id = $1 FOR UPDATE
	`, id))
}

// ActiveExistsForJobTx reports whether a pending or completed contract exists
// for the job. Cancelled contracts don't count.
func (r *ContractRepo) ActiveExistsForJobTx(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM contracts WHERE job_id = $1 AND status IN ('pending', 'completed')
		)
	`, jobID).Scan(&exists)
	return exists, err
}

// TransitionTx flips the status only when the contract is still in the
// expected state. Returns false when another request already moved it.
func (r *ContractRepo) TransitionTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.ContractStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE contracts SET status = $3, updated_at = now() WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ContractRepo) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, `
		SELECT `+contractColumns+` FROM contracts WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
}

func (r *ContractRepo) ListByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, `
		SELECT `+contractColumns+` FROM contracts WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
}

func (r *ContractRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Contract, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CompletedExistsBetween reports whether the two users share a completed
// contract in either direction (review eligibility).
func (r *ContractRepo) CompletedExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM contracts
			WHERE status = 'completed'
			  AND ((client_id = $1 AND freelancer_id = $2) OR (client_id = $2 AND freelancer_id = $1))
		)
	`, a, b).Scan(&exists)
	return exists, err
}
