package ports

import (
	"context"
	"time"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// LeaveFilter carries query parameters for listing leave requests.
type LeaveFilter struct {
	Scope      domain.Scope
	EmployeeID string // optional
	Status     domain.LeaveStatus
	StartFrom  time.Time // optional: start_date >= StartFrom
	StartTo    time.Time // optional: start_date < StartTo
}

// LeaveRepository defines persistence operations for leave requests.
type LeaveRepository interface {
	Create(ctx context.Context, l *domain.Leave) error
	FindByID(ctx context.Context, id string) (*domain.Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]*domain.Leave, error)
	// Transition atomically applies tr only while the request is still in
	// tr.From. Returns domain.ErrNotFound when no row matched.
	Transition(ctx context.Context, id string, tr domain.LeaveTransition) (*domain.Leave, error)
}
