package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

const jobColumns = "id, client_id, title, description, budget_cents, duration_days, skills, category, status, created_at, updated_at"

type JobPostRepo struct {
	pool *pgxpool.Pool
}

func NewJobPostRepo(pool *pgxpool.Pool) *JobPostRepo {
	return &JobPostRepo{pool: pool}
}

func scanJob(row pgx.Row) (*models.JobPost, error) {
	var j models.JobPost
	err := row.Scan(&j.ID, &j.ClientID, &j.Title, &j.Description, &j.BudgetCents, &j.DurationDays, &j.Skills, &j.Category, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobPostRepo) Create(ctx context.Context, j *models.JobPost) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO job_posts (id, client_id, title, description, budget_cents, duration_days, skills, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, j.ID, j.ClientID, j.Title, j.Description, j.BudgetCents, j.DurationDays, j.Skills, j.Category, j.Status).Scan(&j.CreatedAt, &j.UpdatedAt)
}

func (r *JobPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.JobPost, error) {
	return scanJob(r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+` FROM job_posts WHERE id = $1
	`, id))
}

func (r *JobPostRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.JobPost, error) {
	return scanJob(tx.QueryRow(ctx, `
		SELECT `+jobColumns+` FROM job_posts WHERE id = $1 FOR UPDATE
	`, id))
}

// ListOpen returns open job posts with their proposal counts, newest first.
func (r *JobPostRepo) ListOpen(ctx context.Context) ([]*models.JobPost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT j.id, j.client_id, j.title, j.description, j.budget_cents, j.duration_days, j.skills, j.category, j.status, j.created_at, j.updated_at,
			(SELECT count(*) FROM proposals p WHERE p.job_id = j.id) AS proposal_count
		FROM job_posts j WHERE j.status = 'open' ORDER BY j.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.JobPost
	for rows.Next() {
		var j models.JobPost
		if err := rows.Scan(&j.ID, &j.ClientID, &j.Title, &j.Description, &j.BudgetCents, &j.DurationDays, &j.Skills, &j.Category, &j.Status, &j.CreatedAt, &j.UpdatedAt, &j.ProposalCount); err != nil {
			return nil, err
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}

func (r *JobPostRepo) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.JobPost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+jobColumns+` FROM job_posts WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.JobPost
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

func (r *JobPostRepo) Update(ctx context.Context, j *models.JobPost) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE job_posts SET title = $2, description = $3, budget_cents = $4, duration_days = $5, skills = $6, category = $7, updated_at = now()
		WHERE id = $1
	`, j.ID, j.Title, j.Description, j.BudgetCents, j.DurationDays, j.Skills, j.Category)
	return err
}

func (r *JobPostRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE job_posts SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

func (r *JobPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM job_posts WHERE id = $1", id)
	return err
}
