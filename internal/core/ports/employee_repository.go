package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// Sortable employee fields accepted by EmployeeFilter.SortBy.
const (
	SortFirstName = "firstName"
	SortLastName  = "lastName"
	SortEmail     = "email"
	SortHireDate  = "hireDate"
	SortSalary    = "salary"
)

// EmployeeFilter carries all query parameters for listing employees.
// Scope is always set by the service layer from the caller's grants.
type EmployeeFilter struct {
	Scope        domain.Scope
	Search       string // optional: partial match on first name, last name or email
	Status       domain.EmployeeStatus
	DepartmentID string
	SortBy       string // one of the Sort* constants; defaults to last name
	Descending   bool
	Page         int // 1-based
	Limit        int
}

// DepartmentHeadcount is the raw per-department aggregate. DepartmentID is
// empty for employees without a department.
type DepartmentHeadcount struct {
	DepartmentID  string
	EmployeeCount int64
	AverageSalary float64
}

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	// FindByEmail matches case-insensitively. Returns domain.ErrNotFound when
	// no employee has the address.
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, int64, error)
	// Replace overwrites the stored employee with the same ID.
	Replace(ctx context.Context, e *domain.Employee) error
	// ApplyChanges performs a single-record field update and returns the
	// updated employee.
	ApplyChanges(ctx context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	HeadcountByDepartment(ctx context.Context) ([]DepartmentHeadcount, error)
}
