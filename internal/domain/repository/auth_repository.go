package repository

import (
	"context"
	"time"

	"github.com/domka/erp-api/internal/domain/entity"
)

// PasswordResetRepository persiste los tokens de recuperación (solo el hash).
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *entity.PasswordReset) error
	GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)
	// MarkUsed marca el token como consumido; false si ya estaba usado.
	MarkUsed(ctx context.Context, tokenHash string, at time.Time) (bool, error)
}

// TokenRevocationRepository lista de jti revocados por logout.
type TokenRevocationRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired elimina revocaciones cuyo token ya expiró.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
