// Package storage archiva documentos generados (PDF de cotizaciones) en el
// sistema de archivos local o en S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/pkg/config"
)

// ErrFileNotFound la clave no existe en el backend.
var ErrFileNotFound = fmt.Errorf("storage: archivo no encontrado: %w", domain.ErrNotFound)

// Storage operaciones de archivo comunes a todos los backends.
type Storage interface {
	// Upload guarda data y devuelve la clave con la que se recupera.
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// Tipos de backend soportados.
const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// New construye el backend configurado en STORAGE_TYPE.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case TypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: tipo desconocido %q", cfg.Type)
	}
}

// generateStoragePath arma una clave única y sin separadores de ruta:
// quotes/<2 primeros del uuid>/<uuid>_<nombre>.<ext>
func generateStoragePath(fileID uuid.UUID, filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, baseName)

	id := fileID.String()
	return fmt.Sprintf("quotes/%s/%s_%s%s", id[:2], id, baseName, ext)
}

// contentType para los formatos que se archivan.
func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
