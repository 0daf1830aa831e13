package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/application/quoting"
	"github.com/domka/erp-api/internal/domain/entity"
)

func sampleDoc() quoting.QuoteDocument {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return quoting.QuoteDocument{
		Quote: &entity.Quote{
			ID: "q1", CompanyID: "c1", ClientID: "cl1", Number: "COT-000042", Sequence: 42,
			Description: strings.Repeat("Suministro e instalación de cerraduras de seguridad ", 4),
			Amount:      decimal.RequireFromString("1500000.50"),
			ValidUntil:  created.AddDate(0, 1, 0),
			Status:      entity.QuoteStatusSent,
			CreatedAt:   created,
		},
		Company: &entity.Company{ID: "c1", Name: "Ferretería Pérez"},
		Client:  &entity.Client{ID: "cl1", Name: "Juan Gómez", CompanyName: "Gómez & Cía"},
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	g := NewMarotoPDFGenerator("es-CO")

	out, err := g.GenerateQuotePDF(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}

func TestGenerateQuotePDF_DocumentoIncompleto(t *testing.T) {
	doc := sampleDoc()
	doc.Client = nil

	_, err := NewMarotoPDFGenerator("es-CO").GenerateQuotePDF(context.Background(), doc)
	assert.Error(t, err)
}

func TestMoney_Locale(t *testing.T) {
	g := NewMarotoPDFGenerator("es-CO")
	assert.Contains(t, g.money(decimal.RequireFromString("1500000.5")), "1.500.000")

	g = NewMarotoPDFGenerator("en-US")
	assert.Contains(t, g.money(decimal.RequireFromString("1500000.5")), "1,500,000")

	g = NewMarotoPDFGenerator("no es un locale")
	assert.True(t, strings.HasPrefix(g.money(decimal.NewFromInt(1)), "$"))
}

func TestWrap(t *testing.T) {
	lines := wrap("uno dos tres cuatro", 8)
	assert.Equal(t, []string{"uno dos", "tres", "cuatro"}, lines)
	assert.Equal(t, []string{""}, wrap("   ", 10))
	for _, l := range wrap(sampleDoc().Quote.Description, 70) {
		assert.LessOrEqual(t, len([]rune(l)), 70)
	}
}
