package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// DepartmentRepository defines persistence operations for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *domain.Department) error
	FindByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context) ([]*domain.Department, error)
	Replace(ctx context.Context, d *domain.Department) error
	Delete(ctx context.Context, id string) error
}

// PositionRepository defines persistence operations for positions.
type PositionRepository interface {
	Create(ctx context.Context, p *domain.Position) error
	FindByID(ctx context.Context, id string) (*domain.Position, error)
	List(ctx context.Context) ([]*domain.Position, error)
	Replace(ctx context.Context, p *domain.Position) error
	Delete(ctx context.Context, id string) error
}
