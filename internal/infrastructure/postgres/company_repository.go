package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
// Los flags de módulos viven en company_modules, una fila por módulo.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste la empresa y su mapa de módulos. Debe correr en transacción
// si se quiere atomicidad (ver TxRunner.RunRegistration).
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, plan, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Plan, company.Status,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return r.SetModules(ctx, company.ID, company.Modules)
}

// GetByID obtiene una empresa por ID con sus módulos.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `
		SELECT id, name, plan, status, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Plan, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	mods, err := r.modules(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Modules = mods[c.ID]
	return &c, nil
}

// Update persiste nombre, plan y estado.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, plan = $3, status = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Plan, company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// SetModules hace upsert de cada flag recibido; los módulos ausentes del mapa
// no se tocan.
func (r *CompanyRepo) SetModules(ctx context.Context, companyID string, modules map[string]bool) error {
	const query = `
		INSERT INTO company_modules (company_id, module_name, is_active, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, module_name)
		DO UPDATE SET is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, m := range entity.AllModules {
		enabled, ok := modules[m]
		if !ok {
			continue
		}
		if _, err := r.q.Exec(ctx, query, companyID, m, enabled, now); err != nil {
			return fmt.Errorf("set module %s: %w", m, err)
		}
	}
	return nil
}

// List devuelve empresas con paginación y el número de usuarios de cada una.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT c.id, c.name, c.plan, c.status, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM users u WHERE u.company_id = c.id)
		FROM companies c ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	var ids []string
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Plan, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.UserCount); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	mods, err := r.modules(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		c.Modules = mods[c.ID]
	}
	return list, nil
}

// modules carga los flags de varias empresas; cada mapa trae todos los módulos
// conocidos (los que no tienen fila quedan en false).
func (r *CompanyRepo) modules(ctx context.Context, companyIDs []string) (map[string]map[string]bool, error) {
	out := make(map[string]map[string]bool, len(companyIDs))
	for _, id := range companyIDs {
		m := make(map[string]bool, len(entity.AllModules))
		for _, name := range entity.AllModules {
			m[name] = false
		}
		out[id] = m
	}
	rows, err := r.q.Query(ctx, `
		SELECT company_id::text, module_name, is_active
		FROM company_modules WHERE company_id = ANY($1::uuid[])`, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var companyID, name string
		var active bool
		if err := rows.Scan(&companyID, &name, &active); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		if m, ok := out[companyID]; ok {
			m[name] = active
		}
	}
	return out, rows.Err()
}
