package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/noah-isme/grade-horaria-api/internal/models"
)

type fakeUoW struct {
	ops []string
	err error
}

func (f *fakeUoW) WithinTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	f.ops = append(f.ops, op)
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type mockUnitRepo struct {
	items     map[int64]*models.Unit
	members   map[int64]bool
	createErr error
	deleteErr error
}

func (m *mockUnitRepo) List(ctx context.Context) ([]models.Unit, error) {
	out := make([]models.Unit, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (m *mockUnitRepo) FindByCode(ctx context.Context, code int64) (*models.Unit, error) {
	if u, ok := m.items[code]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUnitRepo) Exists(ctx context.Context, code int64) (bool, error) {
	_, ok := m.items[code]
	return ok, nil
}

func (m *mockUnitRepo) Create(ctx context.Context, unit *models.Unit) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[int64]*models.Unit)
	}
	cp := *unit
	m.items[unit.Codigo] = &cp
	return nil
}

func (m *mockUnitRepo) Delete(ctx context.Context, code int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if _, ok := m.items[code]; !ok {
		return 0, nil
	}
	delete(m.items, code)
	return 1, nil
}

type mockUserRepo struct {
	items     map[string]*models.User
	findErr   error
	createErr error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.items[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.items[email]
	return ok, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = make(map[string]*models.User)
	}
	cp := *user
	m.items[user.Email] = &cp
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, email string) (int64, error) {
	if _, ok := m.items[email]; !ok {
		return 0, nil
	}
	delete(m.items, email)
	return 1, nil
}

type mockProfessorRepo struct {
	items      map[int64]*models.Professor
	lastFilter models.ProfessorFilter
	listRows   []models.ProfessorSummary
	listTotal  int
	listErr    error
	createErr  func(p *models.Professor) error
}

func (m *mockProfessorRepo) List(ctx context.Context, filter models.ProfessorFilter) ([]models.ProfessorSummary, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listRows, m.listTotal, nil
}

func (m *mockProfessorRepo) All(ctx context.Context) ([]models.Professor, error) {
	out := make([]models.Professor, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NomeProfessor.String < out[j].NomeProfessor.String })
	return out, nil
}

func (m *mockProfessorRepo) FindByMatricula(ctx context.Context, matricula int64) (*models.Professor, error) {
	if p, ok := m.items[matricula]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfessorRepo) ExistsByMatricula(ctx context.Context, matricula int64) (bool, error) {
	_, ok := m.items[matricula]
	return ok, nil
}

func (m *mockProfessorRepo) Create(ctx context.Context, professor *models.Professor) error {
	if m.createErr != nil {
		if err := m.createErr(professor); err != nil {
			return err
		}
	}
	if m.items == nil {
		m.items = make(map[int64]*models.Professor)
	}
	cp := *professor
	m.items[professor.Matricula.Int64] = &cp
	return nil
}

func (m *mockProfessorRepo) Delete(ctx context.Context, matricula int64) (int64, error) {
	if _, ok := m.items[matricula]; !ok {
		return 0, nil
	}
	delete(m.items, matricula)
	return 1, nil
}

type fakeThrottle struct {
	blocked  bool
	failures map[string]int
	resets   []string
}

func (f *fakeThrottle) Allow(ctx context.Context, email string) (bool, error) {
	return !f.blocked, nil
}

func (f *fakeThrottle) Fail(ctx context.Context, email string) error {
	if f.failures == nil {
		f.failures = make(map[string]int)
	}
	f.failures[email]++
	return nil
}

func (f *fakeThrottle) Reset(ctx context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }
