package quoting_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/application/quoting"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

const (
	companyA = "aaaaaaaa-0000-0000-0000-000000000001"
	companyB = "bbbbbbbb-0000-0000-0000-000000000002"
	clientA  = "cccccccc-0000-0000-0000-00000000000a"
	clientB  = "cccccccc-0000-0000-0000-00000000000b"
)

var (
	rootP  = &access.Principal{UserID: "root", Role: entity.RoleSuperadmin}
	userA  = &access.Principal{UserID: "user-a", Role: entity.RoleUser, CompanyID: companyA}
	adminB = &access.Principal{UserID: "admin-b", Role: entity.RoleAdmin, CompanyID: companyB}
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memQuotes struct {
	mu       sync.Mutex
	items    map[string]*entity.Quote
	counters map[string]int
}

func newMemQuotes() *memQuotes {
	return &memQuotes{items: map[string]*entity.Quote{}, counters: map[string]int{}}
}

func (m *memQuotes) NextSequence(_ context.Context, companyID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[companyID]++
	return m.counters[companyID], nil
}

func (m *memQuotes) Create(_ context.Context, q *entity.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	m.items[q.ID] = &cp
	return nil
}

func (m *memQuotes) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.items[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

func (m *memQuotes) filter(companyID string) []*entity.Quote {
	var out []*entity.Quote
	for _, q := range m.items {
		if companyID == "" || q.CompanyID == companyID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return out
}

func (m *memQuotes) List(_ context.Context, companyID string, _, _ int) ([]*entity.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(companyID), nil
}

func (m *memQuotes) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Status = status
	return nil
}

func (m *memQuotes) SetDocumentKey(_ context.Context, id, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].DocumentKey = key
	return nil
}

func (m *memQuotes) Count(_ context.Context, companyID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filter(companyID)), nil
}

func (m *memQuotes) AcceptedRevenue(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *memQuotes) MonthlyAcceptedRevenue(context.Context, string, time.Time) ([]repository.MonthlyAmount, error) {
	return nil, nil
}

// memTx aplica fn sobre el mismo repo; failCreate simula un fallo dentro de la transacción.
type memTx struct {
	repo       *memQuotes
	failCreate bool
}

func (t *memTx) RunQuotes(ctx context.Context, fn func(repository.QuoteRepository) error) error {
	if t.failCreate {
		return fn(failingQuotes{t.repo})
	}
	return fn(t.repo)
}

type failingQuotes struct{ *memQuotes }

func (failingQuotes) Create(context.Context, *entity.Quote) error { return errors.New("insert falló") }

type memClients struct{ items map[string]*entity.Client }

func (m memClients) Create(context.Context, *entity.Client) error { return nil }
func (m memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	return m.items[id], nil
}
func (m memClients) Update(context.Context, *entity.Client) error { return nil }
func (m memClients) Delete(context.Context, string) error         { return nil }
func (m memClients) List(context.Context, string, int, int) ([]*entity.Client, error) {
	return nil, nil
}
func (m memClients) Count(context.Context, string) (int, error) { return 0, nil }

type memCompanies struct{ items map[string]*entity.Company }

func (m memCompanies) Create(context.Context, *entity.Company) error { return nil }
func (m memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.items[id], nil
}
func (m memCompanies) Update(context.Context, *entity.Company) error { return nil }
func (m memCompanies) SetModules(context.Context, string, map[string]bool) error {
	return nil
}
func (m memCompanies) List(context.Context, int, int) ([]*entity.Company, error) { return nil, nil }

type stubPDF struct{ err error }

func (s stubPDF) GenerateQuotePDF(_ context.Context, doc quoting.QuoteDocument) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF " + doc.Quote.Number + " " + doc.Company.Name + " " + doc.Client.Name), nil
}

type stubXML struct{}

func (stubXML) ExportQuoteXML(_ context.Context, doc quoting.QuoteDocument) ([]byte, error) {
	return []byte("<Cotizacion numero=\"" + doc.Quote.Number + "\"/>"), nil
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memStorage) Upload(_ context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("quotes/%s_%s", fileID, filename)
	s.files[key] = b
	return key, nil
}

func (s *memStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, errors.New("no existe")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type recorder struct {
	mu    sync.Mutex
	descs []string
}

func (r *recorder) Record(_ context.Context, _, _, _, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descs = append(r.descs, description)
}

type fixture struct {
	uc      *quoting.QuoteUseCase
	quotes  *memQuotes
	tx      *memTx
	storage *memStorage
	rec     *recorder
}

func newFixture() *fixture {
	quotes := newMemQuotes()
	tx := &memTx{repo: quotes}
	clients := memClients{items: map[string]*entity.Client{
		clientA: {ID: clientA, CompanyID: companyA, Name: "Juan Pérez"},
		clientB: {ID: clientB, CompanyID: companyB, Name: "Ana Gómez"},
	}}
	companies := memCompanies{items: map[string]*entity.Company{
		companyA: {ID: companyA, Name: "Ferretería A", Status: entity.CompanyStatusActive},
		companyB: {ID: companyB, Name: "Papelería B", Status: entity.CompanyStatusActive},
	}}
	storage := &memStorage{files: map[string][]byte{}}
	rec := &recorder{}
	uc := quoting.NewQuoteUseCase(quotes, clients, companies, tx, stubPDF{}, stubXML{}, storage, rec)
	return &fixture{uc: uc, quotes: quotes, tx: tx, storage: storage, rec: rec}
}

func quoteReq(client string) dto.CreateQuoteRequest {
	return dto.CreateQuoteRequest{
		ClientID:    client,
		Description: "Instalación de cerraduras",
		Amount:      decimal.RequireFromString("250000.456"),
		ValidUntil:  "2026-04-30",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "COT-000001", quoting.FormatNumber(1))
	assert.Equal(t, "COT-123456", quoting.FormatNumber(123456))
}

func TestQuote_CreateNumeraPorEmpresa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	q1, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)
	q2, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)
	qb, err := f.uc.Create(ctx, adminB, quoteReq(clientB))
	require.NoError(t, err)

	assert.Equal(t, "COT-000001", q1.Number)
	assert.Equal(t, "COT-000002", q2.Number)
	assert.Equal(t, "COT-000001", qb.Number, "cada empresa tiene su propia secuencia")
	assert.Equal(t, entity.QuoteStatusDraft, q1.Status)
	assert.Equal(t, "Juan Pérez", q1.ClientName)
	assert.Equal(t, "user-a", q1.CreatedBy)
	assert.True(t, q1.Amount.Equal(decimal.RequireFromString("250000.46")))
	assert.Equal(t, "2026-04-30", q1.ValidUntil)
	require.Len(t, f.rec.descs, 3)
	assert.Contains(t, f.rec.descs[0], "COT-000001")
}

func TestQuote_CreateValidaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, userA, quoteReq(clientB))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cliente de otra empresa")

	req := quoteReq(clientA)
	req.Amount = decimal.Zero
	_, err = f.uc.Create(ctx, userA, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = quoteReq(clientA)
	req.ValidUntil = "30/04/2026"
	_, err = f.uc.Create(ctx, userA, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = quoteReq(clientA)
	req.Description = "<script>x</script>"
	_, err = f.uc.Create(ctx, userA, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = quoteReq(clientA)
	req.CompanyID = companyB
	_, err = f.uc.Create(ctx, userA, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Create(ctx, nil, quoteReq(clientA))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	req = quoteReq(clientA)
	req.CompanyID = companyA
	out, err := f.uc.Create(ctx, rootP, req)
	require.NoError(t, err)
	assert.Equal(t, companyA, out.CompanyID)
}

func TestQuote_CreateFalloEnTransaccionNoRegistraActividad(t *testing.T) {
	f := newFixture()
	f.tx.failCreate = true

	_, err := f.uc.Create(context.Background(), userA, quoteReq(clientA))
	require.Error(t, err)
	assert.Empty(t, f.rec.descs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_AislamientoYListado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	qa, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, adminB, quoteReq(clientB))
	require.NoError(t, err)

	_, err = f.uc.GetByID(ctx, adminB, qa.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.GetByID(ctx, userA, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.List(ctx, userA, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	_, err = f.uc.List(ctx, userA, companyB, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err = f.uc.List(ctx, rootP, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestQuote_UpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)

	out, err := f.uc.UpdateStatus(ctx, userA, q.ID, entity.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusAccepted, out.Status)
	assert.Len(t, f.rec.descs, 2)

	_, err = f.uc.UpdateStatus(ctx, userA, q.ID, entity.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Len(t, f.rec.descs, 2, "sin cambio no hay actividad")

	_, err = f.uc.UpdateStatus(ctx, userA, q.ID, "pagada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateStatus(ctx, adminB, q.ID, entity.QuoteStatusRejected)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_RenderYExport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)

	pdf, name, err := f.uc.RenderPDF(ctx, userA, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "COT-000001.pdf", name)
	assert.Contains(t, string(pdf), "Ferretería A")
	assert.Contains(t, string(pdf), "Juan Pérez")

	xml, name, err := f.uc.ExportXML(ctx, userA, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "COT-000001.xml", name)
	assert.Contains(t, string(xml), `numero="COT-000001"`)

	_, _, err = f.uc.RenderPDF(ctx, adminB, q.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestQuote_ArchiveYDownload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)

	_, _, err = f.uc.DownloadArchived(ctx, userA, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "aún no archivada")

	arch, err := f.uc.Archive(ctx, userA, q.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(arch.DocumentKey, "COT-000001.pdf"))

	got, err := f.uc.GetByID(ctx, userA, q.ID)
	require.NoError(t, err)
	assert.Equal(t, arch.DocumentKey, got.DocumentKey)

	rc, name, err := f.uc.DownloadArchived(ctx, userA, q.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "COT-000001.pdf", name)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))

	_, _, err = f.uc.DownloadArchived(ctx, adminB, q.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestQuote_ArchiveFalloDelGenerador(t *testing.T) {
	quotes := newMemQuotes()
	clients := memClients{items: map[string]*entity.Client{clientA: {ID: clientA, CompanyID: companyA, Name: "Juan"}}}
	companies := memCompanies{items: map[string]*entity.Company{companyA: {ID: companyA, Name: "A"}}}
	storage := &memStorage{files: map[string][]byte{}}
	uc := quoting.NewQuoteUseCase(quotes, clients, companies, &memTx{repo: quotes},
		stubPDF{err: errors.New("fuente no encontrada")}, stubXML{}, storage, &recorder{})
	ctx := context.Background()

	q, err := uc.Create(ctx, userA, quoteReq(clientA))
	require.NoError(t, err)

	_, err = uc.Archive(ctx, userA, q.ID)
	require.Error(t, err)
	assert.Empty(t, storage.files)
}
