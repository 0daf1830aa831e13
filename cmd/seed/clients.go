package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

const (
	encodingWindows1252 = "windows-1252"
	encodingUTF8        = "utf-8"
)

type clientRow struct {
	Line        int
	Name        string
	Email       string
	Phone       string
	CompanyName string
}

type importResult struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// readClientsCSV lee nombre,email,teléfono,empresa. La primera fila es el
// encabezado. Acepta ';' como separador (Excel en español).
func readClientsCSV(r io.Reader, encoding string) ([]clientRow, error) {
	switch strings.ToLower(encoding) {
	case encodingWindows1252, "latin1", "iso-8859-1":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case encodingUTF8, "":
	default:
		return nil, fmt.Errorf("codificación no soportada %q", encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if first, _, _ := strings.Cut(text, "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}

	var rows []clientRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line++
		if line == 1 {
			continue
		}
		row := clientRow{Line: line}
		for i, v := range rec {
			v = strings.TrimSpace(v)
			switch i {
			case 0:
				row.Name = v
			case 1:
				row.Email = strings.ToLower(v)
			case 2:
				row.Phone = v
			case 3:
				row.CompanyName = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// importClients crea los clientes en companyID. Filas sin nombre se omiten y
// los emails repetidos en la empresa se cuentan como duplicados.
func importClients(ctx context.Context, repo repository.ClientRepository, companyID string, rows []clientRow, now func() time.Time) importResult {
	var res importResult
	for _, row := range rows {
		name := sanitize.Text(row.Name)
		if name == "" {
			res.Skipped++
			continue
		}
		ts := now()
		err := repo.Create(ctx, &entity.Client{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			Name:        name,
			Email:       row.Email,
			Phone:       sanitize.Text(row.Phone),
			CompanyName: sanitize.Text(row.CompanyName),
			CreatedAt:   ts,
			UpdatedAt:   ts,
		})
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, domain.ErrDuplicate):
			res.Duplicates++
		default:
			res.Skipped++
		}
	}
	return res
}
