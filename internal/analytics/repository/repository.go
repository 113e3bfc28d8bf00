package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StageCounts returns the number of active leads per funnel stage. Stages
// with no leads are absent from the map; the service fills in zeros.
func (r *Repository) StageCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT estagio, count(*)
		FROM leads
		WHERE archived_at IS NULL
		GROUP BY estagio
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var estagio string
		var count int
		if err := rows.Scan(&estagio, &count); err != nil {
			return nil, err
		}
		counts[estagio] = count
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return counts, nil
}

// Overview holds aggregate funnel metrics.
type Overview struct {
	TotalActive      int
	TotalArchived    int
	MergesLast30Days int
	PendingReviews   int
	AverageScore     float64
	CreatedSince     int
}

// GetOverview computes the aggregate metrics in one round trip.
func (r *Repository) GetOverview(ctx context.Context, createdSince time.Time) (Overview, error) {
	var o Overview
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM leads WHERE archived_at IS NULL),
			(SELECT count(*) FROM leads WHERE archived_at IS NOT NULL),
			(SELECT count(*) FROM lead_merges WHERE created_at > now() - interval '30 days'),
			(SELECT count(*) FROM duplicate_candidates WHERE status = 'pending'),
			(SELECT COALESCE(avg(score_bant), 0) FROM leads WHERE archived_at IS NULL AND score_bant > 0),
			(SELECT count(*) FROM leads WHERE archived_at IS NULL AND created_at >= $1)
	`, createdSince).Scan(
		&o.TotalActive, &o.TotalArchived, &o.MergesLast30Days,
		&o.PendingReviews, &o.AverageScore, &o.CreatedSince,
	)
	if err != nil {
		return Overview{}, err
	}
	return o, nil
}

// OrigemCounts returns active lead counts grouped by acquisition source.
func (r *Repository) OrigemCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(origem, ''), 'desconhecida'), count(*)
		FROM leads
		WHERE archived_at IS NULL
		GROUP BY 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var origem string
		var count int
		if err := rows.Scan(&origem, &count); err != nil {
			return nil, err
		}
		counts[origem] = count
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return counts, nil
}
