package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigfolio/backend/internal/models"
)

// ProposalStore is the minimal proposal repository interface for acceptance.
type ProposalStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Proposal, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	RejectOthersTx(ctx context.Context, tx pgx.Tx, jobID, acceptedID uuid.UUID) error
}

// AcceptanceFlow turns an accepted proposal into a pending contract. The
// proposal flip, sibling rejections, contract creation, and the job's
// open -> in_progress move happen in one transaction.
type AcceptanceFlow struct {
	pool      TxBeginner
	proposals ProposalStore
	jobs      JobStore
	contracts *ContractManager
	log       *slog.Logger
}

func NewAcceptanceFlow(pool TxBeginner, proposals ProposalStore, jobs JobStore, contracts *ContractManager, log *slog.Logger) *AcceptanceFlow {
	if log == nil {
		log = slog.Default()
	}
	return &AcceptanceFlow{pool: pool, proposals: proposals, jobs: jobs, contracts: contracts, log: log}
}

// Accept is the client action. The contract takes the proposal's amount and
// duration, not the job's budget.
func (f *AcceptanceFlow) Accept(ctx context.Context, clientID, proposalID uuid.UUID) (*models.Contract, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := f.proposals.GetByIDForUpdate(ctx, tx, proposalID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if p.Status != models.ProposalStatusSubmitted {
		return nil, fmt.Errorf("%w: proposal is %s", ErrInvalidStatus, p.Status)
	}

	job, err := f.jobs.GetByIDTx(ctx, tx, p.JobID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if job.ClientID != clientID {
		return nil, fmt.Errorf("%w: job belongs to another client", ErrForbidden)
	}

	contract, err := f.contracts.CreateTx(ctx, tx, clientID, p.FreelancerID, p.JobID, p.AmountCents, p.DurationDays)
	if err != nil {
		return nil, err
	}

	if err := f.proposals.UpdateStatusTx(ctx, tx, p.ID, models.ProposalStatusAccepted); err != nil {
		return nil, err
	}
	if err := f.proposals.RejectOthersTx(ctx, tx, p.JobID, p.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	f.log.Info("proposal accepted", "proposal_id", p.ID, "job_id", p.JobID, "contract_id", contract.ID)
	return contract, nil
}
