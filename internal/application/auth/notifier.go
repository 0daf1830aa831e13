package auth

import (
	"context"

	"github.com/domka/erp-api/pkg/logger"
)

// LogResetNotifier escribe el enlace de recuperación en el log. Sirve en
// desarrollo y mientras no exista un proveedor de correo.
type LogResetNotifier struct {
	log     *logger.Logger
	baseURL string
}

// NewLogResetNotifier baseURL se antepone al token (ej: https://app/reset?token=).
func NewLogResetNotifier(log *logger.Logger, baseURL string) *LogResetNotifier {
	return &LogResetNotifier{log: log.Component("reset-notifier"), baseURL: baseURL}
}

// SendPasswordReset implementa ResetNotifier.
func (n *LogResetNotifier) SendPasswordReset(_ context.Context, email, name, token string) error {
	n.log.Info().
		Str("email", email).
		Str("name", name).
		Str("link", n.baseURL+token).
		Msg("enlace de recuperación de contraseña generado")
	return nil
}
