package ports

import (
	"context"
	"time"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// TimeSheetFilter carries query parameters for listing timesheets.
type TimeSheetFilter struct {
	Scope      domain.Scope
	EmployeeID string // optional
	Status     domain.TimeSheetStatus
	DateFrom   time.Time // optional: date >= DateFrom
}

// TimeSheetRepository defines persistence operations for timesheets.
type TimeSheetRepository interface {
	Create(ctx context.Context, t *domain.TimeSheet) error
	FindByID(ctx context.Context, id string) (*domain.TimeSheet, error)
	List(ctx context.Context, filter TimeSheetFilter) ([]*domain.TimeSheet, error)
	// Transition atomically applies tr to the timesheet only while it is still
	// in tr.From. Returns domain.ErrNotFound when no row matched.
	Transition(ctx context.Context, id string, tr domain.TimeSheetTransition) (*domain.TimeSheet, error)
	// DeleteDraft removes the timesheet only while it is a draft. Returns
	// domain.ErrNotFound when no row matched.
	DeleteDraft(ctx context.Context, id string) error
}
