package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// ListTimeSheetsInput carries optional list filters.
type ListTimeSheetsInput struct {
	EmployeeID string
	Status     string
}

// TimeSheetActionResult acknowledges a timesheet workflow step. Changed is
// false when the step was ignored because the record was not in the
// expected state.
type TimeSheetActionResult struct {
	Message   string
	TimeSheet *domain.TimeSheet
	Changed   bool
}

// TimeSheetService defines use-case operations for timesheets.
type TimeSheetService interface {
	ListTimeSheets(ctx context.Context, p *domain.Principal, in ListTimeSheetsInput) ([]*domain.TimeSheet, error)
	GetTimeSheet(ctx context.Context, p *domain.Principal, id string) (*domain.TimeSheet, error)
	CreateTimeSheet(ctx context.Context, p *domain.Principal, t domain.TimeSheet) (*domain.TimeSheet, error)
	SubmitTimeSheet(ctx context.Context, p *domain.Principal, id string) (*TimeSheetActionResult, error)
	ApproveTimeSheet(ctx context.Context, p *domain.Principal, id string) (*TimeSheetActionResult, error)
	RejectTimeSheet(ctx context.Context, p *domain.Principal, id string) (*TimeSheetActionResult, error)
	DeleteTimeSheet(ctx context.Context, p *domain.Principal, id string) error
	TimeSheetHours(ctx context.Context, p *domain.Principal, employeeID string) (*domain.TimeSheetHours, error)
}

// ListLeavesInput carries optional list filters.
type ListLeavesInput struct {
	EmployeeID string
	Status     string
}

// LeaveActionResult acknowledges a leave decision.
type LeaveActionResult struct {
	Message string
	Leave   *domain.Leave
	Changed bool
}

// LeaveService defines use-case operations for leave requests.
type LeaveService interface {
	ListLeaves(ctx context.Context, p *domain.Principal, in ListLeavesInput) ([]*domain.Leave, error)
	GetLeave(ctx context.Context, p *domain.Principal, id string) (*domain.Leave, error)
	CreateLeave(ctx context.Context, p *domain.Principal, l domain.Leave) (*domain.Leave, error)
	ApproveLeave(ctx context.Context, p *domain.Principal, id, comments string) (*LeaveActionResult, error)
	RejectLeave(ctx context.Context, p *domain.Principal, id, reason string) (*LeaveActionResult, error)
	LeaveBalance(ctx context.Context, p *domain.Principal, employeeID string) (*domain.LeaveBalance, error)
}

// ReportService defines the dashboard analytics.
type ReportService interface {
	EmployeeCount(ctx context.Context, p *domain.Principal) (int64, error)
	DepartmentStatistics(ctx context.Context, p *domain.Principal) ([]domain.DepartmentStatistic, error)
}
