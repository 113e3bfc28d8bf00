package repository

import (
	"context"
	"errors"
	"time"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/phone"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MergeFieldUpdates carries the winning values of a resolved merge. Nil
// pointers leave the survivor's column untouched; the alternates slices
// replace the survivor's lists wholesale (the caller computes the union).
type MergeFieldUpdates struct {
	Nome                  *string
	Telefone              *string
	Email                 *string
	Empresa               *string
	Necessidade           *string
	Estagio               *string
	ScoreBant             *int
	Qualificacao          *domain.Qualificacao
	Proposta              *string
	Origem                *string
	TelefonesAlternativos []string
	EmailsAlternativos    []string
}

type ApplyMergeParams struct {
	SurvivorID uuid.UUID
	ArchivedID uuid.UUID
	Updates    MergeFieldUpdates
	// Decisions is the per-field audit trail, stored as JSON.
	Decisions any
	Deferred  []string
	MatchType string
	Score     int
	ActorID   *uuid.UUID
}

// MergeRecord is one committed merge from the audit table.
type MergeRecord struct {
	ID         uuid.UUID
	SurvivorID uuid.UUID
	ArchivedID uuid.UUID
	MatchType  string
	Score      int
	Decisions  []byte
	Deferred   []string
	ActorID    *uuid.UUID
	CreatedAt  time.Time
}

// ApplyMerge commits a resolved merge atomically: the survivor absorbs the
// winning field values, the duplicate is archived, and the decision trail is
// recorded. Either all three happen or none do.
func (r *Repository) ApplyMerge(ctx context.Context, params ApplyMergeParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, err
	}
	defer tx.Rollback(ctx)

	u := params.Updates
	var telefoneDigits *string
	if u.Telefone != nil {
		d := phone.Digits(*u.Telefone)
		telefoneDigits = &d
	}

	row := tx.QueryRow(ctx, `
		UPDATE leads SET
			nome = COALESCE($2, nome),
			telefone = COALESCE($3, telefone),
			telefone_digits = COALESCE($4, telefone_digits),
			email = COALESCE($5, email),
			empresa = COALESCE($6, empresa),
			necessidade = COALESCE($7, necessidade),
			estagio = COALESCE($8, estagio),
			score_bant = COALESCE($9, score_bant),
			qualificacao = COALESCE($10, qualificacao),
			proposta = COALESCE($11, proposta),
			origem = COALESCE($12, origem),
			telefones_alternativos = $13,
			emails_alternativos = $14,
			updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
		RETURNING `+leadColumns,
		params.SurvivorID, u.Nome, u.Telefone, telefoneDigits, u.Email, u.Empresa,
		u.Necessidade, u.Estagio, u.ScoreBant, u.Qualificacao, u.Proposta, u.Origem,
		u.TelefonesAlternativos, u.EmailsAlternativos,
	)
	survivor, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET archived_at = now(), updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
	`, params.ArchivedID)
	if err != nil {
		return domain.Lead{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Lead{}, ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_merges (survivor_id, archived_id, match_type, score, decisions, deferred, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, params.SurvivorID, params.ArchivedID, params.MatchType, params.Score,
		params.Decisions, params.Deferred, params.ActorID)
	if err != nil {
		return domain.Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, err
	}
	return survivor, nil
}

// ListMerges returns the merge history involving a lead, newest first. The
// lead can appear as survivor or as the archived side.
func (r *Repository) ListMerges(ctx context.Context, leadID uuid.UUID) ([]MergeRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, survivor_id, archived_id, match_type, score, decisions, deferred, actor_id, created_at
		FROM lead_merges
		WHERE survivor_id = $1 OR archived_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]MergeRecord, 0)
	for rows.Next() {
		var rec MergeRecord
		if err := rows.Scan(
			&rec.ID, &rec.SurvivorID, &rec.ArchivedID, &rec.MatchType, &rec.Score,
			&rec.Decisions, &rec.Deferred, &rec.ActorID, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

// DuplicateCandidate is a classifier hit recorded by the background scan,
// waiting for a human to confirm or dismiss the merge.
type DuplicateCandidate struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	DuplicateID uuid.UUID
	MatchType   string
	Score       int
	Status      string
	CreatedAt   time.Time
}

// RecordDuplicateCandidate stores a classifier hit once per pair. Re-scans
// hitting the same pair refresh the score instead of duplicating the row.
func (r *Repository) RecordDuplicateCandidate(ctx context.Context, leadID, duplicateID uuid.UUID, matchType string, score int) error {
	// Normalize the pair order so (a, b) and (b, a) land on the same row.
	lo, hi := leadID, duplicateID
	if hi.String() < lo.String() {
		lo, hi = hi, lo
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO duplicate_candidates (lead_id, duplicate_id, match_type, score, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (lead_id, duplicate_id)
		DO UPDATE SET match_type = EXCLUDED.match_type, score = EXCLUDED.score
	`, lo, hi, matchType, score)
	return err
}

// ListDuplicateCandidates returns pending candidates ordered by score.
func (r *Repository) ListDuplicateCandidates(ctx context.Context, limit int) ([]DuplicateCandidate, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, duplicate_id, match_type, score, status, created_at
		FROM duplicate_candidates
		WHERE status = 'pending'
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]DuplicateCandidate, 0)
	for rows.Next() {
		var item DuplicateCandidate
		if err := rows.Scan(
			&item.ID, &item.LeadID, &item.DuplicateID, &item.MatchType,
			&item.Score, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

// ResolveDuplicateCandidates closes out pending candidates touching either
// side of a committed merge.
func (r *Repository) ResolveDuplicateCandidates(ctx context.Context, leadID, duplicateID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE duplicate_candidates SET status = 'resolved'
		WHERE status = 'pending'
		  AND (lead_id IN ($1, $2) OR duplicate_id IN ($1, $2))
	`, leadID, duplicateID)
	return err
}
