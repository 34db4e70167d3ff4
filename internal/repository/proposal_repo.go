package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

const proposalColumns = "id, job_id, freelancer_id, cover_letter, amount_cents, duration_days, status, created_at"

type ProposalRepo struct {
	pool *pgxpool.Pool
}

func NewProposalRepo(pool *pgxpool.Pool) *ProposalRepo {
	return &ProposalRepo{pool: pool}
}

func scanProposal(row pgx.Row) (*models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.ID, &p.JobID, &p.FreelancerID, &p.CoverLetter, &p.AmountCents, &p.DurationDays, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO proposals (id, job_id, freelancer_id, cover_letter, amount_cents, duration_days, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.JobID, p.FreelancerID, p.CoverLetter, p.AmountCents, p.DurationDays, p.Status).Scan(&p.CreatedAt)
}

func (r *ProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return scanProposal(r.pool.QueryRow(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE id = $1
	`, id))
}

// GetByIDForUpdate locks the proposal row. Call within a transaction.
func (r *ProposalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Proposal, error) {
	return scanProposal(tx.QueryRow(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE id = $1 FOR UPDATE
	`, id))
}

// FindByJobAndFreelancer returns the freelancer's proposal for a job.
func (r *ProposalRepo) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Proposal, error) {
	return scanProposal(r.pool.QueryRow(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE job_id = $1 AND freelancer_id = $2
	`, jobID, freelancerID))
}

func (r *ProposalRepo) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]*models.Proposal, error) {
	return r.list(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE job_id = $1 ORDER BY created_at DESC
	`, jobID)
}

func (r *ProposalRepo) ListByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*models.Proposal, error) {
	return r.list(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
}

func (r *ProposalRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Proposal, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProposalRepo) Update(ctx context.Context, p *models.Proposal) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE proposals SET cover_letter = $2, amount_cents = $3, duration_days = $4, updated_at = now() WHERE id = $1
	`, p.ID, p.CoverLetter, p.AmountCents, p.DurationDays)
	return err
}

func (r *ProposalRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE proposals SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

// RejectOthersTx rejects every other still-submitted proposal on the job.
func (r *ProposalRepo) RejectOthersTx(ctx context.Context, tx pgx.Tx, jobID, acceptedID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE proposals SET status = 'rejected', updated_at = now() WHERE job_id = $1 AND id <> $2 AND status = 'submitted'
	`, jobID, acceptedID)
	return err
}

func (r *ProposalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM proposals WHERE id = $1", id)
	return err
}
