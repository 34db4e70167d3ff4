package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigfolio/backend/internal/models"
)

// PlatformStats is the admin overview aggregate.
type PlatformStats struct {
	UsersByRole       map[string]int `json:"users_by_role"`
	JobsByStatus      map[string]int `json:"jobs_by_status"`
	ContractsByStatus map[string]int `json:"contracts_by_status"`
	Proposals         int            `json:"proposals"`
	ProfitCents       int64          `json:"profit_cents"`
}

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) Overview(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{
		UsersByRole:       make(map[string]int),
		JobsByStatus:      make(map[string]int),
		ContractsByStatus: make(map[string]int),
	}

	if err := r.countBy(ctx, `SELECT role, count(*) FROM users GROUP BY role`, stats.UsersByRole); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, `SELECT status, count(*) FROM job_posts GROUP BY status`, stats.JobsByStatus); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, `SELECT status, count(*) FROM contracts GROUP BY status`, stats.ContractsByStatus); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM proposals`).Scan(&stats.Proposals); err != nil {
		return nil, err
	}
	// Platform profit is whatever the system wallet has collected.
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE((SELECT available_cents FROM wallets WHERE id = $1), 0)
	`, models.SystemWalletID).Scan(&stats.ProfitCents)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *StatsRepo) countBy(ctx context.Context, sql string, out map[string]int) error {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		out[key] = n
	}
	return rows.Err()
}
