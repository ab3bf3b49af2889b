package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// unassignedDepartment labels employees with no department in statistics.
const unassignedDepartment = "Unassigned"

// ReportService computes the dashboard figures.
type ReportService struct {
	employees   ports.EmployeeRepository
	departments ports.DepartmentRepository
	gate        *authz.Gate
	logger      zerolog.Logger
}

func NewReportService(employees ports.EmployeeRepository, departments ports.DepartmentRepository, gate *authz.Gate, logger zerolog.Logger) *ReportService {
	return &ReportService{employees: employees, departments: departments, gate: gate, logger: logger}
}

func (s *ReportService) EmployeeCount(ctx context.Context, p *domain.Principal) (int64, error) {
	if err := s.gate.Authorize(p, domain.PermReportsView, "view reports"); err != nil {
		return 0, err
	}
	return s.employees.Count(ctx)
}

// DepartmentStatistics groups employees by department, ordered by name.
func (s *ReportService) DepartmentStatistics(ctx context.Context, p *domain.Principal) ([]domain.DepartmentStatistic, error) {
	if err := s.gate.Authorize(p, domain.PermReportsView, "view reports"); err != nil {
		return nil, err
	}

	counts, err := s.employees.HeadcountByDepartment(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate headcount")
		return nil, err
	}
	departments, err := s.departments.List(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	names := make(map[string]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	stats := make([]domain.DepartmentStatistic, 0, len(counts))
	for _, c := range counts {
		name, ok := names[c.DepartmentID]
		if !ok || c.DepartmentID == "" {
			name = unassignedDepartment
		}
		stats = append(stats, domain.DepartmentStatistic{
			DepartmentID:   c.DepartmentID,
			DepartmentName: name,
			EmployeeCount:  c.EmployeeCount,
			AverageSalary:  c.AverageSalary,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].DepartmentName < stats[j].DepartmentName })
	return stats, nil
}
