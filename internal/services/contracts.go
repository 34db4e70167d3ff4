package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigfolio/backend/internal/models"
)

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ContractStore is the minimal contract repository interface for the manager.
type ContractStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, c *models.Contract) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Contract, error)
	ActiveExistsForJobTx(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) (bool, error)
	TransitionTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.ContractStatus) (bool, error)
}

// JobStore mutates job post status in lockstep with contract transitions.
type JobStore interface {
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.JobPost, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
}

// UserDirectory validates that client/freelancer references are real users
// with the expected role.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Settler is the settlement operation the manager invokes on completion.
type Settler interface {
	Settle(ctx context.Context, tx pgx.Tx, contractID, clientID, freelancerID uuid.UUID, amountCents int64) (int64, error)
}

// EnqueueReleaseTxFunc schedules a pending-balance release within the given
// transaction. Provided by main as a closure over river.Client.InsertTx.
type EnqueueReleaseTxFunc func(ctx context.Context, tx pgx.Tx, contractID, freelancerID uuid.UUID, amountCents int64) error

// ContractManager owns the contract state machine:
// pending -> completed | cancelled, both terminal.
type ContractManager struct {
	pool           TxBeginner
	contracts      ContractStore
	jobs           JobStore
	users          UserDirectory
	settler        Settler
	enqueueRelease EnqueueReleaseTxFunc
	log            *slog.Logger
}

func NewContractManager(pool TxBeginner, contracts ContractStore, jobs JobStore, users UserDirectory, settler Settler, enqueueRelease EnqueueReleaseTxFunc, log *slog.Logger) *ContractManager {
	if log == nil {
		log = slog.Default()
	}
	return &ContractManager{pool: pool, contracts: contracts, jobs: jobs, users: users, settler: settler, enqueueRelease: enqueueRelease, log: log}
}

// Create opens a pending contract for a job in its own transaction.
func (m *ContractManager) Create(ctx context.Context, clientID, freelancerID, jobID uuid.UUID, amountCents int64, durationDays int) (*models.Contract, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := m.CreateTx(ctx, tx, clientID, freelancerID, jobID, amountCents, durationDays)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateTx creates the contract inside the caller's transaction. Rejects with
// ErrConflict when a pending or completed contract already exists for the job
// (a cancelled predecessor does not block). Moves the job to in_progress.
func (m *ContractManager) CreateTx(ctx context.Context, tx pgx.Tx, clientID, freelancerID, jobID uuid.UUID, amountCents int64, durationDays int) (*models.Contract, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("contract amount must be > 0, got %d", amountCents)
	}

	client, err := m.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	freelancer, err := m.users.GetByID(ctx, freelancerID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if client.Role != models.UserRoleClient || freelancer.Role != models.UserRoleFreelancer {
		return nil, fmt.Errorf("%w: contract requires a client and a freelancer", ErrInvalidStatus)
	}

	job, err := m.jobs.GetByIDTx(ctx, tx, jobID)
	if err != nil {
		return nil, mapNoRows(err)
	}

	exists, err := m.contracts.ActiveExistsForJobTx(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: job already has an active contract", ErrConflict)
	}

	c := &models.Contract{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: freelancerID,
		JobID:        job.ID,
		AmountCents:  amountCents,
		DurationDays: durationDays,
		Status:       models.ContractStatusPending,
	}
	if err := m.contracts.CreateTx(ctx, tx, c); err != nil {
		return nil, err
	}
	if err := m.jobs.UpdateStatusTx(ctx, tx, job.ID, models.JobStatusInProgress); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus drives a transition parsed at the API boundary.
func (m *ContractManager) UpdateStatus(ctx context.Context, contractID uuid.UUID, newStatus models.ContractStatus) (*models.Contract, error) {
	switch newStatus {
	case models.ContractStatusCompleted:
		return m.Complete(ctx, contractID)
	case models.ContractStatusCancelled:
		return m.Cancel(ctx, contractID)
	}
	return nil, fmt.Errorf("%w: cannot transition to %q", ErrInvalidStatus, newStatus)
}

// Complete settles the payout and closes the contract and its job. Settlement
// runs first: if it fails nothing is persisted, so the job is never marked
// completed for an unpaid contract. The conditional status flip guarantees a
// second Complete call fails with ErrInvalidStatus instead of paying twice.
func (m *ContractManager) Complete(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := m.contracts.GetByIDForUpdate(ctx, tx, contractID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if c.Status != models.ContractStatusPending {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidStatus, c.Status)
	}

	net, err := m.settler.Settle(ctx, tx, c.ID, c.ClientID, c.FreelancerID, c.AmountCents)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := m.jobs.UpdateStatusTx(ctx, tx, c.JobID, models.JobStatusCompleted); err != nil {
		return nil, err
	}
	ok, err := m.contracts.TransitionTx(ctx, tx, c.ID, models.ContractStatusPending, models.ContractStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: contract is no longer pending", ErrInvalidStatus)
	}

	if m.enqueueRelease != nil && net > 0 {
		if err := m.enqueueRelease(ctx, tx, c.ID, c.FreelancerID, net); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	c.Status = models.ContractStatusCompleted
	m.log.Info("contract completed", "contract_id", c.ID, "job_id", c.JobID, "amount_cents", c.AmountCents)
	return c, nil
}

// Cancel closes the contract without payment and reopens the job so a new
// proposal can be accepted later.
func (m *ContractManager) Cancel(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := m.contracts.GetByIDForUpdate(ctx, tx, contractID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if c.Status != models.ContractStatusPending {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidStatus, c.Status)
	}

	if err := m.jobs.UpdateStatusTx(ctx, tx, c.JobID, models.JobStatusOpen); err != nil {
		return nil, err
	}
	ok, err := m.contracts.TransitionTx(ctx, tx, c.ID, models.ContractStatusPending, models.ContractStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: contract is no longer pending", ErrInvalidStatus)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	c.Status = models.ContractStatusCancelled
	m.log.Info("contract cancelled", "contract_id", c.ID, "job_id", c.JobID)
	return c, nil
}

// mapNoRows converts pgx's no-rows error into the core taxonomy.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
