package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// OrganizationService manages departments and positions.
type OrganizationService interface {
	ListDepartments(ctx context.Context, p *domain.Principal) ([]*domain.Department, error)
	GetDepartment(ctx context.Context, p *domain.Principal, id string) (*domain.Department, error)
	CreateDepartment(ctx context.Context, p *domain.Principal, d domain.Department) (*domain.Department, error)
	UpdateDepartment(ctx context.Context, p *domain.Principal, id string, d domain.Department) (*domain.Department, error)
	DeleteDepartment(ctx context.Context, p *domain.Principal, id string) error

	ListPositions(ctx context.Context, p *domain.Principal) ([]*domain.Position, error)
	GetPosition(ctx context.Context, p *domain.Principal, id string) (*domain.Position, error)
	CreatePosition(ctx context.Context, p *domain.Principal, pos domain.Position) (*domain.Position, error)
	UpdatePosition(ctx context.Context, p *domain.Principal, id string, pos domain.Position) (*domain.Position, error)
	DeletePosition(ctx context.Context, p *domain.Principal, id string) error
}
