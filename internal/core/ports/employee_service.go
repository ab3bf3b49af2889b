package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// ListEmployeesInput carries all parameters for the list endpoint.
type ListEmployeesInput struct {
	Search       string
	Status       string
	DepartmentID string
	SortBy       string
	Descending   bool
	Page         int
	Limit        int
}

// EmployeeView is an employee enriched for display.
type EmployeeView struct {
	domain.Employee
	FullName       string
	YearsOfService int
	DepartmentName string
	PositionTitle  string
}

// ListEmployeesResult is returned by ListEmployees.
type ListEmployeesResult struct {
	Items      []EmployeeView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// EmployeeActionResult acknowledges a lifecycle action.
type EmployeeActionResult struct {
	Message  string
	Employee *EmployeeView
}

// EmployeeService defines use-case operations for employees.
type EmployeeService interface {
	ListEmployees(ctx context.Context, p *domain.Principal, in ListEmployeesInput) (*ListEmployeesResult, error)
	GetEmployee(ctx context.Context, p *domain.Principal, id string) (*EmployeeView, error)
	CreateEmployee(ctx context.Context, p *domain.Principal, e domain.Employee) (*EmployeeView, error)
	UpdateEmployee(ctx context.Context, p *domain.Principal, id string, e domain.Employee) (*EmployeeView, error)
	DeleteEmployee(ctx context.Context, p *domain.Principal, id string) error
	PromoteEmployee(ctx context.Context, p *domain.Principal, id, positionID string, salary *float64) (*EmployeeActionResult, error)
	TransferEmployee(ctx context.Context, p *domain.Principal, id, departmentID string) (*EmployeeActionResult, error)
	UpdateSalary(ctx context.Context, p *domain.Principal, id string, salary float64) (*EmployeeActionResult, error)
}
