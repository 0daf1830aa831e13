package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

var (
	_ repository.PasswordResetRepository   = (*PasswordResetRepo)(nil)
	_ repository.TokenRevocationRepository = (*TokenRevocationRepo)(nil)
)

// PasswordResetRepo tokens de recuperación; solo se guarda el hash SHA-256.
type PasswordResetRepo struct {
	q Querier
}

func NewPasswordResetRepository(q Querier) *PasswordResetRepo {
	return &PasswordResetRepo{q: q}
}

func (r *PasswordResetRepo) Create(ctx context.Context, reset *entity.PasswordReset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`,
		reset.TokenHash, reset.UserID, reset.ExpiresAt, reset.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (r *PasswordResetRepo) GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	var p entity.PasswordReset
	err := r.q.QueryRow(ctx, `
		SELECT token_hash, user_id, expires_at, used_at, created_at
		FROM password_resets WHERE token_hash = $1`, tokenHash).
		Scan(&p.TokenHash, &p.UserID, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	return &p, nil
}

// MarkUsed consume el token una sola vez: el UPDATE condicionado a used_at IS NULL
// resuelve dos confirmaciones simultáneas.
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, tokenHash string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE password_resets SET used_at = $2 WHERE token_hash = $1 AND used_at IS NULL`, tokenHash, at)
	if err != nil {
		return false, fmt.Errorf("mark reset used: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// TokenRevocationRepo lista de jti revocados por logout.
type TokenRevocationRepo struct {
	q Querier
}

func NewTokenRevocationRepository(q Querier) *TokenRevocationRepo {
	return &TokenRevocationRepo{q: q}
}

// Revoke es idempotente.
func (r *TokenRevocationRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *TokenRevocationRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// PurgeExpired borra revocaciones de tokens que ya expiraron por sí solos.
func (r *TokenRevocationRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return cmd.RowsAffected(), nil
}
