package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity is one audit trail entry on a lead.
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Action    string
	Meta      map[string]any
	ActorID   *uuid.UUID
	CreatedAt time.Time
}

// AddActivity appends an audit trail entry. Merge commits, stage changes, and
// webhook captures all record here.
func (r *Repository) AddActivity(ctx context.Context, leadID uuid.UUID, actorID *uuid.UUID, action string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, actor_id, action, meta)
		VALUES ($1, $2, $3, $4)
	`, leadID, actorID, action, meta)
	return err
}

// ListActivity returns a lead's audit trail, newest first.
func (r *Repository) ListActivity(ctx context.Context, leadID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, action, meta, actor_id, created_at
		FROM lead_activity
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		if err := rows.Scan(&item.ID, &item.LeadID, &item.Action, &item.Meta, &item.ActorID, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
