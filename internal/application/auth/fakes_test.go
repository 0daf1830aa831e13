package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de auth
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) List(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.byID {
		if companyID == "" || u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCompanies struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func newMemCompanies() *memCompanies { return &memCompanies{byID: map[string]*entity.Company{}} }

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	return m.Create(context.Background(), c)
}

func (m *memCompanies) SetModules(_ context.Context, id string, mods map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].Modules = mods
	return nil
}

func (m *memCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Company
	for _, c := range m.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type memResets struct {
	mu     sync.Mutex
	byHash map[string]*entity.PasswordReset
}

func (m *memResets) Create(_ context.Context, r *entity.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byHash[r.TokenHash] = &cp
	return nil
}

func (m *memResets) GetByHash(_ context.Context, h string) (*entity.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.byHash[h]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memResets) MarkUsed(_ context.Context, h string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byHash[h]
	if !ok || r.UsedAt != nil {
		return false, nil
	}
	r.UsedAt = &at
	return true, nil
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memRevocations) Revoke(_ context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *memRevocations) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, k)
			n++
		}
	}
	return n, nil
}

// memTx ejecuta fn sobre los mismos fakes; failUser simula un fallo tras crear la empresa.
type memTx struct {
	companies *memCompanies
	users     *memUsers
	failUser  error
}

func (t *memTx) RunRegistration(ctx context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	stagedCompanies := newMemCompanies()
	stagedUsers := &failingUsers{memUsers: newMemUsers(), err: t.failUser}
	if err := fn(stagedCompanies, stagedUsers); err != nil {
		return err
	}
	for _, c := range stagedCompanies.byID {
		_ = t.companies.Create(ctx, c)
	}
	for _, u := range stagedUsers.byID {
		if err := t.users.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

type failingUsers struct {
	*memUsers
	err error
}

func (f *failingUsers) Create(ctx context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	return f.memUsers.Create(ctx, u)
}

type captureNotifier struct {
	email, token string
	calls        int
}

func (c *captureNotifier) SendPasswordReset(_ context.Context, email, _, token string) error {
	c.email, c.token = email, token
	c.calls++
	return nil
}

type activityEntry struct{ companyID, userID, kind, description string }

type memActivity struct {
	mu      sync.Mutex
	entries []activityEntry
}

func (m *memActivity) Record(_ context.Context, companyID, userID, kind, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, activityEntry{companyID, userID, kind, description})
}

func (m *memActivity) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.kind)
	}
	return out
}
