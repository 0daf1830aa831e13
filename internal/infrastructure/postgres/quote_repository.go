package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación del puerto QuoteRepository sobre PostgreSQL.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteSelect = `
	SELECT q.id, q.company_id, q.client_id, COALESCE(c.name, ''), q.number, q.sequence,
	       q.description, q.amount, q.valid_until, q.status, COALESCE(q.created_by::text, ''),
	       q.document_key, q.created_at, q.updated_at
	FROM quotes q
	LEFT JOIN clients c ON c.id = q.client_id`

func scanQuote(row interface{ Scan(...any) error }) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(&q.ID, &q.CompanyID, &q.ClientID, &q.ClientName, &q.Number, &q.Sequence,
		&q.Description, &q.Amount, &q.ValidUntil, &q.Status, &q.CreatedBy,
		&q.DocumentKey, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// NextSequence incrementa el contador de la empresa con un upsert; la fila
// queda bloqueada hasta el fin de la transacción, así dos altas concurrentes
// nunca obtienen el mismo número.
func (r *QuoteRepo) NextSequence(ctx context.Context, companyID string) (int, error) {
	const query = `
		INSERT INTO quote_counters (company_id, last_value) VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_value = quote_counters.last_value + 1
		RETURNING last_value`
	var seq int
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next quote sequence: %w", err)
	}
	return seq, nil
}

// Create persiste la cotización.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (id, company_id, client_id, number, sequence, description, amount,
		                    valid_until, status, created_by, document_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.CompanyID, q.ClientID, q.Number, q.Sequence, q.Description, q.Amount,
		q.ValidUntil, q.Status, nullable(q.CreatedBy), q.DocumentKey, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene la cotización con el nombre del cliente.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, quoteSelect+` WHERE q.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// List más recientes primero.
func (r *QuoteRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Quote, error) {
	query := quoteSelect + `
		WHERE ($1 = '' OR q.company_id::text = $1)
		ORDER BY q.created_at DESC, q.sequence DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado.
func (r *QuoteRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDocumentKey guarda la clave del PDF archivado.
func (r *QuoteRepo) SetDocumentKey(ctx context.Context, id, key string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE quotes SET document_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set quote document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count total de cotizaciones.
func (r *QuoteRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM quotes WHERE ($1 = '' OR company_id::text = $1)`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}
	return n, nil
}

// AcceptedRevenue suma de cotizaciones aceptadas.
func (r *QuoteRepo) AcceptedRevenue(ctx context.Context, companyID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM quotes
		WHERE status = $2 AND ($1 = '' OR company_id::text = $1)`,
		companyID, entity.QuoteStatusAccepted).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("accepted revenue: %w", err)
	}
	return total, nil
}

// MonthlyAcceptedRevenue agrupa por mes (UTC) de creación.
func (r *QuoteRepo) MonthlyAcceptedRevenue(ctx context.Context, companyID string, since time.Time) ([]repository.MonthlyAmount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, SUM(amount)
		FROM quotes
		WHERE status = $2 AND created_at >= $3 AND ($1 = '' OR company_id::text = $1)
		GROUP BY month ORDER BY month`,
		companyID, entity.QuoteStatusAccepted, since)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyAmount
	for rows.Next() {
		var m repository.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Amount); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		m.Month = m.Month.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
