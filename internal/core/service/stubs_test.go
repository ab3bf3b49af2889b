package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, time.June, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func principalFor(role domain.Role, email string) *domain.Principal {
	return authz.DefaultPolicy().Principal(domain.Identity{
		ID:    "id-" + email,
		Email: email,
		Role:  role,
	})
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Identity directory and sessions
// ---------------------------------------------------------------------------

type stubIdentityRepo struct {
	byID    map[string]*domain.Identity
	creates int
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byID: make(map[string]*domain.Identity)}
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Username, identity.Username) {
			return nil, domain.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, identity.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.creates++
	clone := *identity
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	for _, i := range r.byID {
		if strings.EqualFold(i.Username, username) {
			clone := *i
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, i := range r.byID {
		if strings.EqualFold(i.Email, email) {
			clone := *i
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubSessionStore struct {
	sessions map[string]domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session domain.Session) error {
	s.sessions[session.Identity.ID] = session
	return nil
}

func (s *stubSessionStore) Load(_ context.Context, identityID string) (*domain.Session, error) {
	session, ok := s.sessions[identityID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *stubSessionStore) Clear(_ context.Context, identityID string) error {
	delete(s.sessions, identityID)
	return nil
}

// ---------------------------------------------------------------------------
// Employees and organization
// ---------------------------------------------------------------------------

type stubEmployeeRepo struct {
	byID       map[string]*domain.Employee
	writes     int
	lastFilter ports.EmployeeFilter
	err        error
}

func newStubEmployeeRepo(employees ...*domain.Employee) *stubEmployeeRepo {
	r := &stubEmployeeRepo{byID: make(map[string]*domain.Employee)}
	for _, e := range employees {
		clone := *e
		r.byID[e.ID] = &clone
	}
	return r
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	if r.err != nil {
		return r.err
	}
	r.writes++
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, e := range r.byID {
		if strings.EqualFold(e.Email, email) {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List applies the same filters the real Mongo repo would use.
func (r *stubEmployeeRepo) List(_ context.Context, f ports.EmployeeFilter) ([]*domain.Employee, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	r.lastFilter = f
	var matched []*domain.Employee
	for _, e := range r.byID {
		if !f.Scope.Covers(e.ID, e.DepartmentID) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.DepartmentID != "" && e.DepartmentID != f.DepartmentID {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			hay := strings.ToLower(e.FirstName + " " + e.LastName + " " + e.Email)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].LastName < matched[j].LastName })

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *stubEmployeeRepo) Replace(_ context.Context, e *domain.Employee) error {
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEmployeeRepo) ApplyChanges(_ context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.writes++
	changes.Apply(e)
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

func (r *stubEmployeeRepo) Count(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.byID)), nil
}

func (r *stubEmployeeRepo) HeadcountByDepartment(_ context.Context) ([]ports.DepartmentHeadcount, error) {
	if r.err != nil {
		return nil, r.err
	}
	type acc struct {
		count       int64
		salarySum   float64
		salaryCount int
	}
	groups := map[string]*acc{}
	for _, e := range r.byID {
		a, ok := groups[e.DepartmentID]
		if !ok {
			a = &acc{}
			groups[e.DepartmentID] = a
		}
		a.count++
		if e.Salary != nil {
			a.salarySum += *e.Salary
			a.salaryCount++
		}
	}
	out := make([]ports.DepartmentHeadcount, 0, len(groups))
	for id, a := range groups {
		h := ports.DepartmentHeadcount{DepartmentID: id, EmployeeCount: a.count}
		if a.salaryCount > 0 {
			h.AverageSalary = a.salarySum / float64(a.salaryCount)
		}
		out = append(out, h)
	}
	return out, nil
}

type stubDepartmentRepo struct {
	byID   map[string]*domain.Department
	writes int
}

func newStubDepartmentRepo(departments ...*domain.Department) *stubDepartmentRepo {
	r := &stubDepartmentRepo{byID: make(map[string]*domain.Department)}
	for _, d := range departments {
		clone := *d
		r.byID[d.ID] = &clone
	}
	return r
}

func (r *stubDepartmentRepo) Create(_ context.Context, d *domain.Department) error {
	r.writes++
	clone := *d
	r.byID[d.ID] = &clone
	return nil
}

func (r *stubDepartmentRepo) FindByID(_ context.Context, id string) (*domain.Department, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDepartmentRepo) List(_ context.Context) ([]*domain.Department, error) {
	out := make([]*domain.Department, 0, len(r.byID))
	for _, d := range r.byID {
		clone := *d
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubDepartmentRepo) Replace(_ context.Context, d *domain.Department) error {
	if _, ok := r.byID[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	clone := *d
	r.byID[d.ID] = &clone
	return nil
}

func (r *stubDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

type stubPositionRepo struct {
	byID   map[string]*domain.Position
	writes int
}

func newStubPositionRepo(positions ...*domain.Position) *stubPositionRepo {
	r := &stubPositionRepo{byID: make(map[string]*domain.Position)}
	for _, p := range positions {
		clone := *p
		r.byID[p.ID] = &clone
	}
	return r
}

func (r *stubPositionRepo) Create(_ context.Context, p *domain.Position) error {
	r.writes++
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPositionRepo) FindByID(_ context.Context, id string) (*domain.Position, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPositionRepo) List(_ context.Context) ([]*domain.Position, error) {
	out := make([]*domain.Position, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPositionRepo) Replace(_ context.Context, p *domain.Position) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPositionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Workflow records
// ---------------------------------------------------------------------------

type stubTimeSheetRepo struct {
	byID   map[string]*domain.TimeSheet
	writes int
	// raceTo, when set, moves the row to this status right before a guarded
	// write, simulating a concurrent writer that won.
	raceTo domain.TimeSheetStatus
}

func newStubTimeSheetRepo(entries ...*domain.TimeSheet) *stubTimeSheetRepo {
	r := &stubTimeSheetRepo{byID: make(map[string]*domain.TimeSheet)}
	for _, t := range entries {
		clone := *t
		r.byID[t.ID] = &clone
	}
	return r
}

func (r *stubTimeSheetRepo) Create(_ context.Context, t *domain.TimeSheet) error {
	r.writes++
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTimeSheetRepo) FindByID(_ context.Context, id string) (*domain.TimeSheet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTimeSheetRepo) List(_ context.Context, f ports.TimeSheetFilter) ([]*domain.TimeSheet, error) {
	var out []*domain.TimeSheet
	for _, t := range r.byID {
		if !f.Scope.Covers(t.EmployeeID, "") {
			continue
		}
		if f.EmployeeID != "" && t.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom) {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTimeSheetRepo) Transition(_ context.Context, id string, tr domain.TimeSheetTransition) (*domain.TimeSheet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.raceTo != "" {
		t.Status = r.raceTo
	}
	if t.Status != tr.From {
		return nil, domain.ErrNotFound
	}
	r.writes++
	tr.Apply(t)
	clone := *t
	return &clone, nil
}

func (r *stubTimeSheetRepo) DeleteDraft(_ context.Context, id string) error {
	t, ok := r.byID[id]
	if !ok || t.Status != domain.TimeSheetDraft {
		return domain.ErrNotFound
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

type stubLeaveRepo struct {
	byID       map[string]*domain.Leave
	writes     int
	lastFilter ports.LeaveFilter
}

func newStubLeaveRepo(leaves ...*domain.Leave) *stubLeaveRepo {
	r := &stubLeaveRepo{byID: make(map[string]*domain.Leave)}
	for _, l := range leaves {
		clone := *l
		r.byID[l.ID] = &clone
	}
	return r
}

func (r *stubLeaveRepo) Create(_ context.Context, l *domain.Leave) error {
	r.writes++
	clone := *l
	r.byID[l.ID] = &clone
	return nil
}

func (r *stubLeaveRepo) FindByID(_ context.Context, id string) (*domain.Leave, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLeaveRepo) List(_ context.Context, f ports.LeaveFilter) ([]*domain.Leave, error) {
	r.lastFilter = f
	var out []*domain.Leave
	for _, l := range r.byID {
		if !f.Scope.Covers(l.EmployeeID, "") {
			continue
		}
		if f.EmployeeID != "" && l.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if !f.StartFrom.IsZero() && l.StartDate.Before(f.StartFrom) {
			continue
		}
		if !f.StartTo.IsZero() && !l.StartDate.Before(f.StartTo) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLeaveRepo) Transition(_ context.Context, id string, tr domain.LeaveTransition) (*domain.Leave, error) {
	l, ok := r.byID[id]
	if !ok || l.Status != tr.From {
		return nil, domain.ErrNotFound
	}
	r.writes++
	tr.Apply(l)
	clone := *l
	return &clone, nil
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
