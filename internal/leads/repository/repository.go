package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/phone"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, nome, telefone, email, empresa, necessidade, estagio, score_bant,
	qualificacao, proposta, origem, telefones_alternativos, emails_alternativos, metadata,
	created_at, updated_at, archived_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateLeadParams struct {
	Nome         string
	Telefone     string
	Email        string
	Empresa      string
	Necessidade  string
	Estagio      string
	ScoreBant    int
	Qualificacao domain.Qualificacao
	Proposta     string
	Origem       string
	Metadata     map[string]string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			nome, telefone, telefone_digits, email, empresa, necessidade, estagio, score_bant,
			qualificacao, proposta, origem, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+leadColumns,
		params.Nome, params.Telefone, phone.Digits(params.Telefone), params.Email,
		params.Empresa, params.Necessidade, params.Estagio, params.ScoreBant,
		params.Qualificacao, params.Proposta, params.Origem, metadata,
	)

	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByPhoneDigits(ctx context.Context, digits string) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE telefone_digits = $1 AND archived_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 1
	`, digits)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lower(email) = lower($1) AND email <> '' AND archived_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 1
	`, email)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

type ListParams struct {
	Search          string
	Estagio         string
	Origem          string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// List returns a page of leads plus the total count for the same filters.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if !params.IncludeArchived {
		where = append(where, "archived_at IS NULL")
	}
	if params.Estagio != "" {
		args = append(args, params.Estagio)
		where = append(where, fmt.Sprintf("estagio = $%d", len(args)))
	}
	if params.Origem != "" {
		args = append(args, params.Origem)
		where = append(where, fmt.Sprintf("origem = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(nome ILIKE $%d OR empresa ILIKE $%d OR email ILIKE $%d OR telefone_digits LIKE $%d)",
			n, n, n, n))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM leads "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, params.Offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM leads %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, clause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// ListCandidates returns active leads for duplicate classification. Archived
// leads never participate: their data already lives on a survivor.
func (r *Repository) ListCandidates(ctx context.Context, excludeID uuid.UUID) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE archived_at IS NULL AND id <> $1
		ORDER BY updated_at DESC
	`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

type UpdateLeadParams struct {
	Nome         *string
	Telefone     *string
	Email        *string
	Empresa      *string
	Necessidade  *string
	ScoreBant    *int
	Qualificacao *domain.Qualificacao
	Proposta     *string
	Origem       *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	var telefoneDigits *string
	if params.Telefone != nil {
		d := phone.Digits(*params.Telefone)
		telefoneDigits = &d
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			nome = COALESCE($2, nome),
			telefone = COALESCE($3, telefone),
			telefone_digits = COALESCE($4, telefone_digits),
			email = COALESCE($5, email),
			empresa = COALESCE($6, empresa),
			necessidade = COALESCE($7, necessidade),
			score_bant = COALESCE($8, score_bant),
			qualificacao = COALESCE($9, qualificacao),
			proposta = COALESCE($10, proposta),
			origem = COALESCE($11, origem),
			updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
		RETURNING `+leadColumns,
		id, params.Nome, params.Telefone, telefoneDigits, params.Email, params.Empresa,
		params.Necessidade, params.ScoreBant, params.Qualificacao, params.Proposta, params.Origem,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, estagio string) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET estagio = $2, updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
		RETURNING `+leadColumns,
		id, estagio,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// Archive soft-retires a lead. Archived leads stay queryable by ID for audit
// trails but drop out of listings, candidate scans, and lookups.
func (r *Repository) Archive(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET archived_at = now(), updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.Nome, &lead.Telefone, &lead.Email, &lead.Empresa, &lead.Necessidade,
		&lead.Estagio, &lead.ScoreBant, &lead.Qualificacao, &lead.Proposta, &lead.Origem,
		&lead.TelefonesAlternativos, &lead.EmailsAlternativos, &lead.Metadata,
		&lead.CreatedAt, &lead.UpdatedAt, &lead.ArchivedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}
