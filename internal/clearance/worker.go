package clearance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// ReleasePendingArgs describes one cleared earning to move from a
// freelancer's pending balance to available. Enqueued transactionally when a
// contract settles, scheduled after the clearance period.
type ReleasePendingArgs struct {
	ContractID   uuid.UUID `json:"contract_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	AmountCents  int64     `json:"amount_cents"`
}

func (ReleasePendingArgs) Kind() string { return "release_pending" }

// TxBeginner abstracts transaction creation for the worker.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Releaser moves cleared funds pending -> available.
type Releaser interface {
	ReleasePending(ctx context.Context, tx pgx.Tx, contractID, freelancerID uuid.UUID, amountCents int64) error
}

type ReleasePendingWorker struct {
	river.WorkerDefaults[ReleasePendingArgs]
	pool     TxBeginner
	releaser Releaser
	log      *slog.Logger
}

func NewReleasePendingWorker(pool TxBeginner, releaser Releaser, log *slog.Logger) *ReleasePendingWorker {
	if log == nil {
		log = slog.Default()
	}
	return &ReleasePendingWorker{pool: pool, releaser: releaser, log: log}
}

func (w *ReleasePendingWorker) Work(ctx context.Context, job *river.Job[ReleasePendingArgs]) error {
	args := job.Args

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := w.releaser.ReleasePending(ctx, tx, args.ContractID, args.FreelancerID, args.AmountCents); err != nil {
		return fmt.Errorf("release pending for contract %s: %w", args.ContractID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}

	w.log.Info("pending funds released", "contract_id", args.ContractID, "freelancer_id", args.FreelancerID, "amount_cents", args.AmountCents)
	return nil
}
