package entity

import "time"

// PasswordReset token de recuperación de contraseña; solo se persiste el hash.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
