package quoting

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

// QuoteTxRunner ejecuta fn en una transacción: la reserva del número y el
// alta de la cotización se confirman juntas.
type QuoteTxRunner interface {
	RunQuotes(ctx context.Context, fn func(quoteRepo repository.QuoteRepository) error) error
}

// QuoteDocument datos completos para representar una cotización.
type QuoteDocument struct {
	Quote   *entity.Quote
	Company *entity.Company
	Client  *entity.Client
}

// QuotePDFGenerator genera la representación gráfica (PDF) de una cotización.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
}

// QuoteXMLExporter serializa la cotización para intercambio con otros sistemas.
type QuoteXMLExporter interface {
	ExportQuoteXML(ctx context.Context, doc QuoteDocument) ([]byte, error)
}

// DocumentStorage almacenamiento de archivos (local o S3).
type DocumentStorage interface {
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
}

// ActivityRecorder registra actividad de forma best-effort.
type ActivityRecorder interface {
	Record(ctx context.Context, companyID, userID, kind, description string)
}
