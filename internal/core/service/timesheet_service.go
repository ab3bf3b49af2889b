package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const weeklyWindow = 7 * 24 * time.Hour

// TimeSheetService runs the timesheet workflow.
type TimeSheetService struct {
	repo      ports.TimeSheetRepository
	employees ports.EmployeeRepository
	gate      *authz.Gate
	mode      TransitionMode
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTimeSheetService(repo ports.TimeSheetRepository, employees ports.EmployeeRepository, gate *authz.Gate, mode TransitionMode, logger zerolog.Logger) *TimeSheetService {
	if mode == "" {
		mode = TransitionReject
	}
	return &TimeSheetService{
		repo:      repo,
		employees: employees,
		gate:      gate,
		mode:      mode,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *TimeSheetService) ListTimeSheets(ctx context.Context, p *domain.Principal, in ports.ListTimeSheetsInput) ([]*domain.TimeSheet, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view timesheets"); err != nil {
		return nil, err
	}
	status := domain.TimeSheetStatus(in.Status)
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown timesheet status %q", in.Status))
	}

	scope, err := s.gate.ReadScope(ctx, p, domain.EntityTimeSheet)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.TimeSheetFilter{Scope: scope, EmployeeID: in.EmployeeID, Status: status})
}

func (s *TimeSheetService) GetTimeSheet(ctx context.Context, p *domain.Principal, id string) (*domain.TimeSheet, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view timesheets"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Timesheet ID is required")
	}
	scope, err := s.gate.ReadScope(ctx, p, domain.EntityTimeSheet)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Covers(t.EmployeeID, "") {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// CreateTimeSheet records a draft entry. Callers log time for themselves
// unless they are admins or approvers.
func (s *TimeSheetService) CreateTimeSheet(ctx context.Context, p *domain.Principal, t domain.TimeSheet) (*domain.TimeSheet, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "log time"); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwner(ctx, p, t.EmployeeID, "log time", domain.PermTimesheetApprove); err != nil {
		return nil, err
	}
	if _, err := s.employees.FindByID(ctx, t.EmployeeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("Employee %s does not exist", t.EmployeeID))
		}
		return nil, err
	}

	t.ID = uuid.NewString()
	t.Status = domain.TimeSheetDraft
	t.CreatedAt = s.now()
	t.SubmittedBy, t.SubmittedAt = "", nil
	t.ApprovedBy, t.ApprovedAt = "", nil
	t.RejectedBy, t.RejectedAt = "", nil
	t.ModifiedAt = nil

	if err := s.repo.Create(ctx, &t); err != nil {
		s.logger.Error().Err(err).Msg("failed to create timesheet")
		return nil, err
	}
	s.logger.Info().Str("timesheet_id", t.ID).Str("employee_id", t.EmployeeID).Msg("timesheet created")
	return &t, nil
}

func (s *TimeSheetService) SubmitTimeSheet(ctx context.Context, p *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "submit timesheets"); err != nil {
		return nil, err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwner(ctx, p, current.EmployeeID, "submit timesheets"); err != nil {
		return nil, err
	}
	return s.transition(ctx, p, current, domain.TimeSheetSubmitted, "Timesheet submitted for approval")
}

func (s *TimeSheetService) ApproveTimeSheet(ctx context.Context, p *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermTimesheetApprove, "approve timesheets"); err != nil {
		return nil, err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, p, current, domain.TimeSheetApproved, "Timesheet approved")
}

func (s *TimeSheetService) RejectTimeSheet(ctx context.Context, p *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermTimesheetApprove, "reject timesheets"); err != nil {
		return nil, err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, p, current, domain.TimeSheetRejected, "Timesheet rejected")
}

// DeleteTimeSheet removes a draft owned by the caller.
func (s *TimeSheetService) DeleteTimeSheet(ctx context.Context, p *domain.Principal, id string) error {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "delete timesheets"); err != nil {
		return err
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeOwner(ctx, p, current.EmployeeID, "delete timesheets"); err != nil {
		return err
	}
	if current.Status != domain.TimeSheetDraft {
		return draftOnly(current)
	}

	err = s.repo.DeleteDraft(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		// Lost a race: report the state that beat us, if the row survived.
		if reread, findErr := s.repo.FindByID(ctx, id); findErr == nil {
			return draftOnly(reread)
		}
	}
	if err != nil {
		return err
	}
	s.logger.Info().Str("timesheet_id", id).Str("actor", p.Actor()).Msg("timesheet deleted")
	return nil
}

// TimeSheetHours totals submitted and approved hours for employeeID, within
// the caller's timesheet scope.
func (s *TimeSheetService) TimeSheetHours(ctx context.Context, p *domain.Principal, employeeID string) (*domain.TimeSheetHours, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view timesheet hours"); err != nil {
		return nil, err
	}
	if employeeID == "" {
		return nil, domain.NewValidationError("Employee ID is required")
	}
	scope, err := s.gate.ReadScope(ctx, p, domain.EntityTimeSheet)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.List(ctx, ports.TimeSheetFilter{Scope: scope, EmployeeID: employeeID})
	if err != nil {
		return nil, err
	}

	weekStart := s.now().Add(-weeklyWindow)
	hours := &domain.TimeSheetHours{EmployeeID: employeeID}
	for _, t := range entries {
		if !t.Status.Counted() {
			continue
		}
		hours.TotalHours += t.HoursWorked
		if !t.Date.Before(weekStart) {
			hours.WeeklyHours += t.HoursWorked
		}
	}
	return hours, nil
}

func (s *TimeSheetService) find(ctx context.Context, id string) (*domain.TimeSheet, error) {
	if id == "" {
		return nil, domain.NewValidationError("Timesheet ID is required")
	}
	return s.repo.FindByID(ctx, id)
}

// transition moves current to the target state if the state machine allows
// it, guarded on the status it was read in.
func (s *TimeSheetService) transition(ctx context.Context, p *domain.Principal, current *domain.TimeSheet, to domain.TimeSheetStatus, message string) (*ports.TimeSheetActionResult, error) {
	from := current.Status
	if !from.CanTransitionTo(to) {
		return s.invalid(current, to)
	}

	updated, err := s.repo.Transition(ctx, current.ID, domain.TimeSheetTransition{
		From: from,
		To:   to,
		By:   p.Actor(),
		At:   s.now(),
	})
	if errors.Is(err, domain.ErrNotFound) {
		reread, findErr := s.repo.FindByID(ctx, current.ID)
		if findErr != nil {
			return nil, findErr
		}
		return s.invalid(reread, to)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("timesheet_id", updated.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", p.Actor()).
		Msg("timesheet transitioned")
	return &ports.TimeSheetActionResult{Message: message, TimeSheet: updated, Changed: true}, nil
}

func (s *TimeSheetService) invalid(current *domain.TimeSheet, to domain.TimeSheetStatus) (*ports.TimeSheetActionResult, error) {
	if s.mode == TransitionIgnore {
		return &ports.TimeSheetActionResult{
			Message:   unchangedMessage("Timesheet", string(current.Status)),
			TimeSheet: current,
		}, nil
	}
	return nil, &domain.TransitionError{Entity: "Timesheet", ID: current.ID, From: string(current.Status), To: string(to)}
}

func draftOnly(t *domain.TimeSheet) error {
	return fmt.Errorf("%w: only draft timesheets can be deleted; timesheet %s is %s", domain.ErrConflict, t.ID, t.Status)
}
