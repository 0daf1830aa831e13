package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("No existe una cuenta con este correo electrónico")
	ErrWrongPassword      = errors.New("La contraseña es incorrecta")
	ErrCompanyNotFound    = errors.New("empresa no encontrada")
	ErrEmailAlreadyExists = errors.New("Este correo electrónico ya está en uso")
	ErrInvalidEmail       = errors.New("El correo electrónico no tiene un formato válido")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrWeakPassword       = errors.New("La contraseña debe tener al menos 6 caracteres")
	ErrPasswordMismatch   = errors.New("Las contraseñas no coinciden")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUserDisabled       = errors.New("Esta cuenta ha sido deshabilitada")
	ErrCompanyDisabled    = errors.New("La empresa está deshabilitada")
	ErrInvalidResetToken  = errors.New("enlace de recuperación inválido o vencido")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrTooManyRequests    = errors.New("Demasiados intentos fallidos. Intenta más tarde")
)
