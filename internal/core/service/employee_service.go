package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 1_000_000
)

var employeeSorts = map[string]struct{}{
	ports.SortFirstName: {},
	ports.SortLastName:  {},
	ports.SortEmail:     {},
	ports.SortHireDate:  {},
	ports.SortSalary:    {},
}

type EmployeeService struct {
	repo        ports.EmployeeRepository
	departments ports.DepartmentRepository
	positions   ports.PositionRepository
	gate        *authz.Gate
	logger      zerolog.Logger
	now         func() time.Time
}

func NewEmployeeService(
	repo ports.EmployeeRepository,
	departments ports.DepartmentRepository,
	positions ports.PositionRepository,
	gate *authz.Gate,
	logger zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		repo:        repo,
		departments: departments,
		positions:   positions,
		gate:        gate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListEmployees returns the page of employees visible to p.
func (s *EmployeeService) ListEmployees(ctx context.Context, p *domain.Principal, in ports.ListEmployeesInput) (*ports.ListEmployeesResult, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view employees"); err != nil {
		return nil, err
	}

	filter := ports.EmployeeFilter{
		Search:       strings.TrimSpace(in.Search),
		Status:       domain.EmployeeStatus(in.Status),
		DepartmentID: in.DepartmentID,
		SortBy:       in.SortBy,
		Descending:   in.Descending,
		Page:         in.Page,
		Limit:        in.Limit,
	}
	if filter.SortBy == "" {
		filter.SortBy = ports.SortLastName
	}
	if _, ok := employeeSorts[filter.SortBy]; !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("Cannot sort employees by %q", in.SortBy))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown employee status %q", in.Status))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > maxPage {
		return nil, domain.NewValidationError(fmt.Sprintf("Page must be at most %d", maxPage))
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	scope, err := s.gate.ReadScope(ctx, p, domain.EntityEmployee)
	if err != nil {
		return nil, err
	}
	filter.Scope = scope

	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list employees")
		return nil, err
	}

	lookup, err := s.loadLookup(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ports.EmployeeView, 0, len(employees))
	for _, e := range employees {
		items = append(items, lookup.view(e, s.now()))
	}

	return &ports.ListEmployeesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetEmployee returns one employee. Rows outside the caller's scope read as
// not found.
func (s *EmployeeService) GetEmployee(ctx context.Context, p *domain.Principal, id string) (*ports.EmployeeView, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view employees"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Employee ID is required")
	}

	scope, err := s.gate.ReadScope(ctx, p, domain.EntityEmployee)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Covers(e.ID, e.DepartmentID) {
		return nil, domain.ErrNotFound
	}
	return s.enrich(ctx, e)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, p *domain.Principal, e domain.Employee) (*ports.EmployeeView, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "create employees"); err != nil {
		return nil, err
	}

	now := s.now()
	e.Email = domain.NormalizeEmail(e.Email)
	if e.Status == "" {
		e.Status = domain.EmployeeActive
	}
	if err := s.validate(ctx, &e, "", now); err != nil {
		return nil, err
	}

	e.ID = uuid.NewString()
	e.CreatedBy = p.Actor()
	e.CreatedAt = &now
	e.ModifiedBy, e.ModifiedAt = "", nil

	if err := s.repo.Create(ctx, &e); err != nil {
		s.logger.Error().Err(err).Msg("failed to create employee")
		return nil, err
	}

	s.logger.Info().Str("employee_id", e.ID).Str("actor", p.Actor()).Msg("employee created")
	return s.enrich(ctx, &e)
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, p *domain.Principal, id string, e domain.Employee) (*ports.EmployeeView, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "update employees"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Employee ID is required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	e.ID = existing.ID
	e.Email = domain.NormalizeEmail(e.Email)
	if e.Status == "" {
		e.Status = existing.Status
	}
	if err := s.validate(ctx, &e, existing.ID, now); err != nil {
		return nil, err
	}

	e.CreatedBy, e.CreatedAt = existing.CreatedBy, existing.CreatedAt
	e.ModifiedBy = p.Actor()
	e.ModifiedAt = &now

	if err := s.repo.Replace(ctx, &e); err != nil {
		s.logger.Error().Err(err).Str("employee_id", id).Msg("failed to update employee")
		return nil, err
	}

	s.logger.Info().Str("employee_id", id).Str("actor", p.Actor()).Msg("employee updated")
	return s.enrich(ctx, &e)
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, p *domain.Principal, id string) error {
	if err := s.gate.Authorize(p, domain.PermEmployeeDelete, "delete employees"); err != nil {
		return err
	}
	if id == "" {
		return domain.NewValidationError("Employee ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("employee_id", id).Str("actor", p.Actor()).Msg("employee deleted")
	return nil
}

// PromoteEmployee moves the employee into positionID, optionally with a new
// salary.
func (s *EmployeeService) PromoteEmployee(ctx context.Context, p *domain.Principal, id, positionID string, salary *float64) (*ports.EmployeeActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "promote employees"); err != nil {
		return nil, err
	}

	v := &domain.ValidationError{}
	if id == "" {
		v.Add("Employee ID is required")
	}
	if positionID == "" {
		v.Add("New position is required")
	}
	if salary != nil && *salary < 0 {
		v.Add("Salary cannot be negative")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.requirePosition(ctx, positionID); err != nil {
		return nil, err
	}

	return s.apply(ctx, p, id, domain.EmployeeChanges{PositionID: &positionID, Salary: salary}, "Employee promoted successfully")
}

func (s *EmployeeService) TransferEmployee(ctx context.Context, p *domain.Principal, id, departmentID string) (*ports.EmployeeActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "transfer employees"); err != nil {
		return nil, err
	}

	v := &domain.ValidationError{}
	if id == "" {
		v.Add("Employee ID is required")
	}
	if departmentID == "" {
		v.Add("New department is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.requireDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

	return s.apply(ctx, p, id, domain.EmployeeChanges{DepartmentID: &departmentID}, "Employee transferred successfully")
}

func (s *EmployeeService) UpdateSalary(ctx context.Context, p *domain.Principal, id string, salary float64) (*ports.EmployeeActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeWrite, "update salaries"); err != nil {
		return nil, err
	}

	v := &domain.ValidationError{}
	if id == "" {
		v.Add("Employee ID is required")
	}
	if salary < 0 {
		v.Add("Salary cannot be negative")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return s.apply(ctx, p, id, domain.EmployeeChanges{Salary: &salary}, "Salary updated successfully")
}

func (s *EmployeeService) apply(ctx context.Context, p *domain.Principal, id string, changes domain.EmployeeChanges, message string) (*ports.EmployeeActionResult, error) {
	changes.ModifiedBy = p.Actor()
	changes.ModifiedAt = s.now()

	updated, err := s.repo.ApplyChanges(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("employee_id", id).Str("actor", p.Actor()).Msg(message)

	view, err := s.enrich(ctx, updated)
	if err != nil {
		return nil, err
	}
	return &ports.EmployeeActionResult{Message: message, Employee: view}, nil
}

// validate runs the form rules plus the checks that need storage. selfID is
// the employee being updated, empty on create.
func (s *EmployeeService) validate(ctx context.Context, e *domain.Employee, selfID string, now time.Time) error {
	if err := e.Validate(now); err != nil {
		return err
	}

	other, err := s.repo.FindByEmail(ctx, e.Email)
	switch {
	case err == nil && other.ID != selfID:
		return domain.NewValidationError(fmt.Sprintf("Employee with email %s already exists", e.Email))
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}

	if e.DepartmentID != "" {
		if err := s.requireDepartment(ctx, e.DepartmentID); err != nil {
			return err
		}
	}
	if e.PositionID != "" {
		if err := s.requirePosition(ctx, e.PositionID); err != nil {
			return err
		}
	}
	return nil
}

func (s *EmployeeService) requireDepartment(ctx context.Context, id string) error {
	_, err := s.departments.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(fmt.Sprintf("Department %s does not exist", id))
	}
	return err
}

func (s *EmployeeService) requirePosition(ctx context.Context, id string) error {
	_, err := s.positions.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(fmt.Sprintf("Position %s does not exist", id))
	}
	return err
}

func (s *EmployeeService) enrich(ctx context.Context, e *domain.Employee) (*ports.EmployeeView, error) {
	lookup := orgLookup{departments: map[string]string{}, positions: map[string]string{}}
	if e.DepartmentID != "" {
		d, err := s.departments.FindByID(ctx, e.DepartmentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if d != nil {
			lookup.departments[d.ID] = d.Name
		}
	}
	if e.PositionID != "" {
		pos, err := s.positions.FindByID(ctx, e.PositionID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if pos != nil {
			lookup.positions[pos.ID] = pos.Title
		}
	}
	view := lookup.view(e, s.now())
	return &view, nil
}

func (s *EmployeeService) loadLookup(ctx context.Context) (orgLookup, error) {
	lookup := orgLookup{departments: map[string]string{}, positions: map[string]string{}}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return lookup, err
	}
	for _, d := range departments {
		lookup.departments[d.ID] = d.Name
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return lookup, err
	}
	for _, pos := range positions {
		lookup.positions[pos.ID] = pos.Title
	}
	return lookup, nil
}

// orgLookup resolves department names and position titles by ID.
type orgLookup struct {
	departments map[string]string
	positions   map[string]string
}

func (l orgLookup) view(e *domain.Employee, now time.Time) ports.EmployeeView {
	return ports.EmployeeView{
		Employee:       *e,
		FullName:       e.FullName(),
		YearsOfService: e.YearsOfService(now),
		DepartmentName: l.departments[e.DepartmentID],
		PositionTitle:  l.positions[e.PositionID],
	}
}
