package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// OrganizationService manages the department and position catalogues.
type OrganizationService struct {
	departments ports.DepartmentRepository
	positions   ports.PositionRepository
	gate        *authz.Gate
	logger      zerolog.Logger
}

func NewOrganizationService(departments ports.DepartmentRepository, positions ports.PositionRepository, gate *authz.Gate, logger zerolog.Logger) *OrganizationService {
	return &OrganizationService{departments: departments, positions: positions, gate: gate, logger: logger}
}

func (s *OrganizationService) ListDepartments(ctx context.Context, p *domain.Principal) ([]*domain.Department, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view departments"); err != nil {
		return nil, err
	}
	return s.departments.List(ctx)
}

func (s *OrganizationService) GetDepartment(ctx context.Context, p *domain.Principal, id string) (*domain.Department, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view departments"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Department ID is required")
	}
	return s.departments.FindByID(ctx, id)
}

func (s *OrganizationService) CreateDepartment(ctx context.Context, p *domain.Principal, d domain.Department) (*domain.Department, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "create departments"); err != nil {
		return nil, err
	}
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.ID = uuid.NewString()
	if err := s.departments.Create(ctx, &d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("department_id", d.ID).Str("actor", p.Actor()).Msg("department created")
	return &d, nil
}

func (s *OrganizationService) UpdateDepartment(ctx context.Context, p *domain.Principal, id string, d domain.Department) (*domain.Department, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "update departments"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Department ID is required")
	}
	d.ID = id
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.departments.Replace(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *OrganizationService) DeleteDepartment(ctx context.Context, p *domain.Principal, id string) error {
	if err := s.gate.Authorize(p, domain.PermEmployeeDelete, "delete departments"); err != nil {
		return err
	}
	if id == "" {
		return domain.NewValidationError("Department ID is required")
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("department_id", id).Str("actor", p.Actor()).Msg("department deleted")
	return nil
}

func (s *OrganizationService) ListPositions(ctx context.Context, p *domain.Principal) ([]*domain.Position, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view positions"); err != nil {
		return nil, err
	}
	return s.positions.List(ctx)
}

func (s *OrganizationService) GetPosition(ctx context.Context, p *domain.Principal, id string) (*domain.Position, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view positions"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Position ID is required")
	}
	return s.positions.FindByID(ctx, id)
}

func (s *OrganizationService) CreatePosition(ctx context.Context, p *domain.Principal, pos domain.Position) (*domain.Position, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "create positions"); err != nil {
		return nil, err
	}
	pos.Title = strings.TrimSpace(pos.Title)
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	pos.ID = uuid.NewString()
	if err := s.positions.Create(ctx, &pos); err != nil {
		return nil, err
	}
	s.logger.Info().Str("position_id", pos.ID).Str("actor", p.Actor()).Msg("position created")
	return &pos, nil
}

func (s *OrganizationService) UpdatePosition(ctx context.Context, p *domain.Principal, id string, pos domain.Position) (*domain.Position, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "update positions"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Position ID is required")
	}
	pos.ID = id
	pos.Title = strings.TrimSpace(pos.Title)
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	if err := s.positions.Replace(ctx, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

func (s *OrganizationService) DeletePosition(ctx context.Context, p *domain.Principal, id string) error {
	if err := s.gate.Authorize(p, domain.PermEmployeeDelete, "delete positions"); err != nil {
		return err
	}
	if id == "" {
		return domain.NewValidationError("Position ID is required")
	}
	if err := s.positions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("position_id", id).Str("actor", p.Actor()).Msg("position deleted")
	return nil
}
