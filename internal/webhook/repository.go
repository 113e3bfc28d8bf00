// Package webhook provides the webhook/form capture bounded context.
// It handles API key management and inbound form submissions from external websites.
package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrAPIKeyNotFound = errors.New("webhook API key not found")

// APIKey represents a webhook API key stored in the database. Only the bcrypt
// hash of the secret part is stored; the prefix is kept in clear for lookup.
type APIKey struct {
	ID        uuid.UUID
	Name      string
	KeyPrefix string
	KeyHash   string
	IsActive  bool
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Repository provides data access for webhook API keys.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new webhook repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GenerateAPIKey creates a new random API key. The plaintext key has the form
// "whk_<prefix>_<secret>" and is returned only once; only the bcrypt hash of
// the secret is stored.
func GenerateAPIKey() (plaintext, prefix, hash string, err error) {
	raw := make([]byte, 28)
	if _, err := rand.Read(raw); err != nil {
		return "", "", "", err
	}
	encoded := hex.EncodeToString(raw)
	prefix = encoded[:8]
	secret := encoded[8:]

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", err
	}

	return fmt.Sprintf("whk_%s_%s", prefix, secret), prefix, string(hashed), nil
}

// VerifyKey checks a presented secret against the stored bcrypt hash.
func VerifyKey(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Create stores a new API key record.
func (r *Repository) Create(ctx context.Context, name, prefix, hash string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		INSERT INTO webhook_api_keys (name, key_prefix, key_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, key_prefix, key_hash, is_active, created_at, revoked_at
	`, name, prefix, hash).Scan(
		&key.ID, &key.Name, &key.KeyPrefix, &key.KeyHash,
		&key.IsActive, &key.CreatedAt, &key.RevokedAt,
	)
	return key, err
}

// GetByPrefix retrieves an active API key by its clear-text prefix.
func (r *Repository) GetByPrefix(ctx context.Context, prefix string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, key_prefix, key_hash, is_active, created_at, revoked_at
		FROM webhook_api_keys
		WHERE key_prefix = $1 AND is_active = true AND revoked_at IS NULL
	`, prefix).Scan(
		&key.ID, &key.Name, &key.KeyPrefix, &key.KeyHash,
		&key.IsActive, &key.CreatedAt, &key.RevokedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return APIKey{}, ErrAPIKeyNotFound
	}
	return key, err
}

// List returns all API keys, active and revoked.
func (r *Repository) List(ctx context.Context) ([]APIKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, key_prefix, key_hash, is_active, created_at, revoked_at
		FROM webhook_api_keys
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]APIKey, 0)
	for rows.Next() {
		var key APIKey
		if err := rows.Scan(
			&key.ID, &key.Name, &key.KeyPrefix, &key.KeyHash,
			&key.IsActive, &key.CreatedAt, &key.RevokedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return keys, nil
}

// Revoke deactivates an API key.
func (r *Repository) Revoke(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE webhook_api_keys SET is_active = false, revoked_at = now()
		WHERE id = $1 AND revoked_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}
