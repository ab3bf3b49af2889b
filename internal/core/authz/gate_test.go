package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

type stubFinder struct {
	byEmail map[string]*domain.Employee
	err     error
}

func (s *stubFinder) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func principal(role domain.Role, email string) *domain.Principal {
	return DefaultPolicy().Principal(domain.Identity{ID: "id-" + email, Email: email, Role: role})
}

func TestGate_Authorize(t *testing.T) {
	g := NewGate(&stubFinder{})

	require.NoError(t, g.Authorize(principal(domain.RoleEmployee, "e@x.io"), domain.PermEmployeeRead, "view employees"))

	err := g.Authorize(principal(domain.RoleEmployee, "e@x.io"), domain.PermLeaveApprove, "approve leave requests")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Insufficient permissions to approve leave requests", err.Error())

	err = g.Authorize(nil, domain.PermEmployeeRead, "view employees")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "authentication required", err.Error())
}

func TestGate_ReadScope(t *testing.T) {
	finder := &stubFinder{byEmail: map[string]*domain.Employee{
		"dev@x.io":   {ID: "e1", Email: "dev@x.io", DepartmentID: "d1"},
		"loner@x.io": {ID: "e2", Email: "loner@x.io"},
		"boss@x.io":  {ID: "e3", Email: "boss@x.io", DepartmentID: "d2"},
	}}
	g := NewGate(finder)
	ctx := context.Background()

	tests := []struct {
		name string
		p    *domain.Principal
		kind domain.EntityKind
		want domain.Scope
	}{
		{"admin employees", principal(domain.RoleAdmin, "root@x.io"), domain.EntityEmployee, domain.AllRows()},
		{"admin leaves", principal(domain.RoleAdmin, "root@x.io"), domain.EntityLeave, domain.AllRows()},
		{"employee sees own department", principal(domain.RoleEmployee, "dev@x.io"), domain.EntityEmployee, domain.DepartmentRows("d1")},
		{"employee without department sees self", principal(domain.RoleEmployee, "loner@x.io"), domain.EntityEmployee, domain.OwnedRows("e2")},
		{"unresolved identity sees nothing", principal(domain.RoleEmployee, "ghost@x.io"), domain.EntityEmployee, domain.NoRows()},
		{"employee owns timesheets", principal(domain.RoleEmployee, "dev@x.io"), domain.EntityTimeSheet, domain.OwnedRows("e1")},
		{"employee owns leaves", principal(domain.RoleEmployee, "dev@x.io"), domain.EntityLeave, domain.OwnedRows("e1")},
		{"unresolved identity has no leaves", principal(domain.RoleEmployee, "ghost@x.io"), domain.EntityLeave, domain.NoRows()},
		{"approver sees all timesheets", principal(domain.RoleManager, "boss@x.io"), domain.EntityTimeSheet, domain.AllRows()},
		{"approver sees all leaves", principal(domain.RoleManager, "boss@x.io"), domain.EntityLeave, domain.AllRows()},
		{"manager employees scoped to department", principal(domain.RoleManager, "boss@x.io"), domain.EntityEmployee, domain.DepartmentRows("d2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.ReadScope(ctx, tt.p, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_ReadScope_EmailIsCaseInsensitive(t *testing.T) {
	g := NewGate(&stubFinder{byEmail: map[string]*domain.Employee{
		"dev@x.io": {ID: "e1", Email: "dev@x.io"},
	}})

	got, err := g.ReadScope(context.Background(), principal(domain.RoleEmployee, "Dev@X.io"), domain.EntityLeave)
	require.NoError(t, err)
	assert.Equal(t, domain.OwnedRows("e1"), got)
}

func TestGate_ReadScope_PropagatesLookupFailure(t *testing.T) {
	g := NewGate(&stubFinder{err: domain.ErrUnavailable})

	got, err := g.ReadScope(context.Background(), principal(domain.RoleEmployee, "dev@x.io"), domain.EntityTimeSheet)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.NoRows(), got)
}

func TestGate_AuthorizeOwner(t *testing.T) {
	g := NewGate(&stubFinder{byEmail: map[string]*domain.Employee{
		"dev@x.io": {ID: "e1", Email: "dev@x.io"},
	}})
	ctx := context.Background()

	require.NoError(t, g.AuthorizeOwner(ctx, principal(domain.RoleEmployee, "dev@x.io"), "e1", "log time"))

	err := g.AuthorizeOwner(ctx, principal(domain.RoleEmployee, "dev@x.io"), "e9", "log time")
	var authErr *domain.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Reason, "your own employee record")

	err = g.AuthorizeOwner(ctx, principal(domain.RoleEmployee, "ghost@x.io"), "e1", "log time")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.NoError(t, g.AuthorizeOwner(ctx, principal(domain.RoleAdmin, "root@x.io"), "e9", "log time"))
	assert.NoError(t, g.AuthorizeOwner(ctx, principal(domain.RoleManager, "boss@x.io"), "e9", "log time", domain.PermTimesheetApprove))
	assert.ErrorIs(t,
		g.AuthorizeOwner(ctx, principal(domain.RoleManager, "boss@x.io"), "e9", "submit timesheets"),
		domain.ErrForbidden)
}
