package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type memCompanies struct {
	mu    sync.Mutex
	items map[string]*entity.Company
	err   error
}

func newMemCompanies(cs ...*entity.Company) *memCompanies {
	m := &memCompanies{items: map[string]*entity.Company{}}
	for _, c := range cs {
		m.items[c.ID] = c
	}
	return m
}

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCompanies) Update(ctx context.Context, c *entity.Company) error { return m.Create(ctx, c) }

func (m *memCompanies) SetModules(_ context.Context, id string, mods map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.Modules = mods
	return nil
}

func (m *memCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Company, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[string]*entity.User
}

func newMemUsers(us ...*entity.User) *memUsers {
	m := &memUsers{items: map[string]*entity.User{}}
	for _, u := range us {
		m.items[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(ctx context.Context, u *entity.User) error { return m.Create(ctx, u) }

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].PasswordHash = hash
	return nil
}

func (m *memUsers) List(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.items {
		if companyID == "" || u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memClients struct {
	mu    sync.Mutex
	items map[string]*entity.Client
}

func newMemClients() *memClients { return &memClients{items: map[string]*entity.Client{}} }

func (m *memClients) Create(_ context.Context, c *entity.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if c.Email != "" && x.CompanyID == c.CompanyID && x.Email == c.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memClients) Update(_ context.Context, c *entity.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memClients) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memClients) filter(companyID string) []*entity.Client {
	var out []*entity.Client
	for _, c := range m.items {
		if companyID == "" || c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memClients) List(_ context.Context, companyID string, _, _ int) ([]*entity.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(companyID), nil
}

func (m *memClients) Count(_ context.Context, companyID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filter(companyID)), nil
}

type memProducts struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func newMemProducts() *memProducts { return &memProducts{items: map[string]*entity.Product{}} }

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if p.SKU != "" && x.CompanyID == p.CompanyID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memProducts) List(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, p := range m.items {
		if companyID == "" || p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Count(ctx context.Context, companyID string) (int, error) {
	list, _ := m.List(ctx, companyID, 0, 0)
	return len(list), nil
}

func (m *memProducts) AdjustStock(_ context.Context, id string, delta int) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	if p.Stock+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

type memTasks struct {
	mu    sync.Mutex
	items map[string]*entity.Task
}

func newMemTasks() *memTasks { return &memTasks{items: map[string]*entity.Task{}} }

func (m *memTasks) Create(_ context.Context, t *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *memTasks) GetByID(_ context.Context, id string) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memTasks) ListByUser(_ context.Context, userID string, onlyPending bool, _ int) ([]*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Task
	for _, t := range m.items {
		if t.UserID == userID && (!onlyPending || !t.Completed) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTasks) SetCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Completed = completed
	return nil
}

type memActivity struct {
	mu      sync.Mutex
	entries []*entity.Activity
	err     error
}

func (m *memActivity) Create(_ context.Context, a *entity.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *memActivity) ListRecent(_ context.Context, companyID string, limit int) ([]*entity.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Activity
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if companyID == "" || m.entries[i].CompanyID == companyID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memActivity) CountByDay(_ context.Context, _ string, _ time.Time) ([]repository.DailyCount, error) {
	return nil, nil
}

func (m *memActivity) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Type)
	}
	return out
}

var errDB = errors.New("db caída")
