package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// EmployeeFinder resolves the employee record behind an identity.
type EmployeeFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

// Gate answers permission and row-scope questions for a principal.
type Gate struct {
	employees EmployeeFinder
}

func NewGate(employees EmployeeFinder) *Gate {
	return &Gate{employees: employees}
}

// Authorize allows the call when p holds perm. action names the operation in
// the denial reason.
func (g *Gate) Authorize(p *domain.Principal, perm domain.Permission, action string) error {
	if p == nil || p.Identity.ID == "" {
		return &domain.AuthorizationError{Permission: perm, Reason: "authentication required"}
	}
	if !p.Can(perm) {
		return &domain.AuthorizationError{
			Permission: perm,
			Reason:     fmt.Sprintf("Insufficient permissions to %s", action),
		}
	}
	return nil
}

// ResolveEmployee finds the employee whose email matches the principal's.
// It returns nil without error when no such employee exists.
func (g *Gate) ResolveEmployee(ctx context.Context, p *domain.Principal) (*domain.Employee, error) {
	if p == nil || p.Identity.Email == "" {
		return nil, nil
	}
	e, err := g.employees.FindByEmail(ctx, domain.NormalizeEmail(p.Identity.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ReadScope computes the row filter p reads kind through.
func (g *Gate) ReadScope(ctx context.Context, p *domain.Principal, kind domain.EntityKind) (domain.Scope, error) {
	if p.Can(domain.PermAdmin) {
		return domain.AllRows(), nil
	}
	switch kind {
	case domain.EntityTimeSheet:
		if p.Can(domain.PermTimesheetApprove) {
			return domain.AllRows(), nil
		}
	case domain.EntityLeave:
		if p.Can(domain.PermLeaveApprove) {
			return domain.AllRows(), nil
		}
	case domain.EntityEmployee:
	default:
		return domain.NoRows(), fmt.Errorf("authz: unknown entity kind %q", kind)
	}

	self, err := g.ResolveEmployee(ctx, p)
	if err != nil {
		return domain.NoRows(), err
	}
	if self == nil {
		return domain.NoRows(), nil
	}
	if kind == domain.EntityEmployee && self.DepartmentID != "" {
		return domain.DepartmentRows(self.DepartmentID), nil
	}
	return domain.OwnedRows(self.ID), nil
}

// AuthorizeOwner allows p to act on a record owned by ownerID. Admins and
// holders of any elevated permission pass without ownership.
func (g *Gate) AuthorizeOwner(ctx context.Context, p *domain.Principal, ownerID, action string, elevated ...domain.Permission) error {
	if err := g.Authorize(p, domain.PermEmployeeRead, action); err != nil {
		return err
	}
	if p.Can(domain.PermAdmin) || p.CanAny(elevated...) {
		return nil
	}
	self, err := g.ResolveEmployee(ctx, p)
	if err != nil {
		return err
	}
	if self == nil || self.ID != ownerID {
		return &domain.AuthorizationError{
			Permission: domain.PermEmployeeRead,
			Reason:     fmt.Sprintf("You can only %s for your own employee record", action),
		}
	}
	return nil
}
