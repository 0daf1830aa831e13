package quoting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

// QuoteNumberPrefix prefijo de la numeración por empresa.
const QuoteNumberPrefix = "COT-"

// FormatNumber da formato al consecutivo: 7 -> COT-000007.
func FormatNumber(seq int) string {
	return fmt.Sprintf("%s%06d", QuoteNumberPrefix, seq)
}

// QuoteUseCase casos de uso de cotizaciones (módulo cotizaciones).
type QuoteUseCase struct {
	quotes    repository.QuoteRepository
	clients   repository.ClientRepository
	companies repository.CompanyRepository
	tx        QuoteTxRunner
	pdf       QuotePDFGenerator
	xml       QuoteXMLExporter
	storage   DocumentStorage
	activity  ActivityRecorder
	now       func() time.Time
}

// NewQuoteUseCase construye el caso de uso inyectando todas sus dependencias.
func NewQuoteUseCase(
	quotes repository.QuoteRepository,
	clients repository.ClientRepository,
	companies repository.CompanyRepository,
	tx QuoteTxRunner,
	pdf QuotePDFGenerator,
	xml QuoteXMLExporter,
	storage DocumentStorage,
	activity ActivityRecorder,
) *QuoteUseCase {
	return &QuoteUseCase{
		quotes:    quotes,
		clients:   clients,
		companies: companies,
		tx:        tx,
		pdf:       pdf,
		xml:       xml,
		storage:   storage,
		activity:  activity,
		now:       time.Now,
	}
}

// Create emite una cotización rápida en estado borrador con el siguiente
// número de la empresa.
func (uc *QuoteUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	companyID, err := access.TargetCompany(p, in.CompanyID)
	if err != nil {
		return nil, err
	}
	description := sanitize.Text(in.Description)
	if description == "" || !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: descripción y monto mayor a cero son obligatorios", domain.ErrInvalidInput)
	}
	validUntil, err := time.Parse(dto.DateLayout, in.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de validez", domain.ErrInvalidInput)
	}

	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
	}

	now := uc.now()
	quote := &entity.Quote{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ClientID:    client.ID,
		ClientName:  client.Name,
		Description: description,
		Amount:      in.Amount.Round(2),
		ValidUntil:  validUntil,
		Status:      entity.QuoteStatusDraft,
		CreatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.RunQuotes(ctx, func(quoteRepo repository.QuoteRepository) error {
		seq, err := quoteRepo.NextSequence(ctx, companyID)
		if err != nil {
			return err
		}
		quote.Sequence = seq
		quote.Number = FormatNumber(seq)
		return quoteRepo.Create(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	uc.activity.Record(ctx, companyID, p.UserID, entity.ActivityQuote,
		fmt.Sprintf("Cotización %s creada para %s", quote.Number, client.Name))
	out := dto.ToQuoteResponse(quote)
	return &out, nil
}

// GetByID obtiene una cotización validando el tenant.
func (uc *QuoteUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.QuoteResponse, error) {
	quote, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToQuoteResponse(quote)
	return &out, nil
}

// List cotizaciones más recientes primero.
func (uc *QuoteUseCase) List(ctx context.Context, p *access.Principal, companyID string, page dto.PageRequest) (*dto.QuoteListResponse, error) {
	scope, err := access.ListCompany(p, companyID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.quotes.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.quotes.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, dto.ToQuoteResponse(q))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// UpdateStatus cambia el estado (borrador, enviada, aceptada, rechazada).
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, p *access.Principal, id, status string) (*dto.QuoteResponse, error) {
	if !entity.ValidQuoteStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	quote, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if quote.Status == status {
		out := dto.ToQuoteResponse(quote)
		return &out, nil
	}
	if err := uc.quotes.UpdateStatus(ctx, quote.ID, status); err != nil {
		return nil, err
	}
	quote.Status = status
	quote.UpdatedAt = uc.now()
	uc.activity.Record(ctx, quote.CompanyID, p.UserID, entity.ActivityQuote,
		fmt.Sprintf("Cotización %s marcada como %s", quote.Number, status))
	out := dto.ToQuoteResponse(quote)
	return &out, nil
}

// RenderPDF genera el PDF de la cotización. Devuelve bytes y nombre de archivo.
func (uc *QuoteUseCase) RenderPDF(ctx context.Context, p *access.Principal, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateQuotePDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("quote pdf: %w", err)
	}
	return data, doc.Quote.Number + ".pdf", nil
}

// ExportXML serializa la cotización a XML.
func (uc *QuoteUseCase) ExportXML(ctx context.Context, p *access.Principal, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xml.ExportQuoteXML(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("quote xml: %w", err)
	}
	return data, doc.Quote.Number + ".xml", nil
}

// Archive genera el PDF, lo guarda en el almacenamiento y recuerda la clave.
func (uc *QuoteUseCase) Archive(ctx context.Context, p *access.Principal, id string) (*dto.ArchiveResponse, error) {
	data, filename, err := uc.RenderPDF(ctx, p, id)
	if err != nil {
		return nil, err
	}
	key, err := uc.storage.Upload(ctx, uuid.New(), filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("quote archive: %w", err)
	}
	if err := uc.quotes.SetDocumentKey(ctx, id, key); err != nil {
		return nil, err
	}
	return &dto.ArchiveResponse{DocumentKey: key}, nil
}

// DownloadArchived abre el PDF archivado. ErrNotFound si nunca se archivó.
// El llamador debe cerrar el reader.
func (uc *QuoteUseCase) DownloadArchived(ctx context.Context, p *access.Principal, id string) (io.ReadCloser, string, error) {
	quote, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	if quote.DocumentKey == "" {
		return nil, "", domain.ErrNotFound
	}
	rc, err := uc.storage.Download(ctx, quote.DocumentKey)
	if err != nil {
		return nil, "", fmt.Errorf("quote download: %w", err)
	}
	return rc, quote.Number + ".pdf", nil
}

func (uc *QuoteUseCase) load(ctx context.Context, p *access.Principal, id string) (*entity.Quote, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	quote, err := uc.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.ValidateOwnership(p, quote.CompanyID); err != nil {
		return nil, err
	}
	return quote, nil
}

func (uc *QuoteUseCase) document(ctx context.Context, p *access.Principal, id string) (*QuoteDocument, error) {
	quote, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, quote.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	client, err := uc.clients.GetByID(ctx, quote.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &entity.Client{ID: quote.ClientID, Name: quote.ClientName}
	}
	return &QuoteDocument{Quote: quote, Company: company, Client: client}, nil
}
