package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// LeaveService runs the leave request workflow.
type LeaveService struct {
	repo        ports.LeaveRepository
	employees   ports.EmployeeRepository
	gate        *authz.Gate
	mode        TransitionMode
	entitlement domain.LeaveEntitlement
	logger      zerolog.Logger
	now         func() time.Time
}

func NewLeaveService(
	repo ports.LeaveRepository,
	employees ports.EmployeeRepository,
	gate *authz.Gate,
	mode TransitionMode,
	entitlement domain.LeaveEntitlement,
	logger zerolog.Logger,
) *LeaveService {
	if mode == "" {
		mode = TransitionReject
	}
	return &LeaveService{
		repo:        repo,
		employees:   employees,
		gate:        gate,
		mode:        mode,
		entitlement: entitlement,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *LeaveService) ListLeaves(ctx context.Context, p *domain.Principal, in ports.ListLeavesInput) ([]*domain.Leave, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view leave requests"); err != nil {
		return nil, err
	}
	status := domain.LeaveStatus(in.Status)
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown leave status %q", in.Status))
	}

	scope, err := s.gate.ReadScope(ctx, p, domain.EntityLeave)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.LeaveFilter{Scope: scope, EmployeeID: in.EmployeeID, Status: status})
}

func (s *LeaveService) GetLeave(ctx context.Context, p *domain.Principal, id string) (*domain.Leave, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view leave requests"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("Leave ID is required")
	}
	scope, err := s.gate.ReadScope(ctx, p, domain.EntityLeave)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Covers(l.EmployeeID, "") {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// CreateLeave files a pending request.
func (s *LeaveService) CreateLeave(ctx context.Context, p *domain.Principal, l domain.Leave) (*domain.Leave, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "request leave"); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwner(ctx, p, l.EmployeeID, "request leave", domain.PermLeaveApprove); err != nil {
		return nil, err
	}
	if _, err := s.employees.FindByID(ctx, l.EmployeeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("Employee %s does not exist", l.EmployeeID))
		}
		return nil, err
	}

	l.ID = uuid.NewString()
	l.Status = domain.LeavePending
	l.CreatedAt = s.now()
	l.Comments, l.RejectionReason = "", ""
	l.ApprovedBy, l.ApprovedAt = "", nil
	l.RejectedBy, l.RejectedAt = "", nil
	l.ModifiedAt = nil

	if err := s.repo.Create(ctx, &l); err != nil {
		s.logger.Error().Err(err).Msg("failed to create leave request")
		return nil, err
	}
	s.logger.Info().Str("leave_id", l.ID).Str("employee_id", l.EmployeeID).Msg("leave requested")
	return &l, nil
}

func (s *LeaveService) ApproveLeave(ctx context.Context, p *domain.Principal, id, comments string) (*ports.LeaveActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermLeaveApprove, "approve leave requests"); err != nil {
		return nil, err
	}
	return s.transition(ctx, p, id, domain.LeaveApproved, strings.TrimSpace(comments), "Leave request approved")
}

func (s *LeaveService) RejectLeave(ctx context.Context, p *domain.Principal, id, reason string) (*ports.LeaveActionResult, error) {
	if err := s.gate.Authorize(p, domain.PermLeaveApprove, "reject leave requests"); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	message := "Leave request rejected"
	if reason != "" {
		message += ": " + reason
	}
	return s.transition(ctx, p, id, domain.LeaveRejected, reason, message)
}

// LeaveBalance reports the remaining entitlement for the current year. Only
// admins may read someone else's balance.
func (s *LeaveService) LeaveBalance(ctx context.Context, p *domain.Principal, employeeID string) (*domain.LeaveBalance, error) {
	if err := s.gate.Authorize(p, domain.PermEmployeeRead, "view leave balances"); err != nil {
		return nil, err
	}
	if employeeID == "" {
		return nil, domain.NewValidationError("Employee ID is required")
	}
	if !p.Can(domain.PermAdmin) {
		self, err := s.gate.ResolveEmployee(ctx, p)
		if err != nil {
			return nil, err
		}
		if self == nil || self.ID != employeeID {
			return nil, &domain.AuthorizationError{
				Permission: domain.PermAdmin,
				Reason:     "You can only view your own leave balance",
			}
		}
	}

	now := s.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	approved, err := s.repo.List(ctx, ports.LeaveFilter{
		Scope:      domain.AllRows(),
		EmployeeID: employeeID,
		Status:     domain.LeaveApproved,
		StartFrom:  yearStart,
		StartTo:    yearStart.AddDate(1, 0, 0),
	})
	if err != nil {
		return nil, err
	}

	balance := s.entitlement.Remaining(employeeID, approved)
	return &balance, nil
}

func (s *LeaveService) transition(ctx context.Context, p *domain.Principal, id string, to domain.LeaveStatus, note, message string) (*ports.LeaveActionResult, error) {
	if id == "" {
		return nil, domain.NewValidationError("Leave ID is required")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return s.invalid(current, to)
	}

	updated, err := s.repo.Transition(ctx, id, domain.LeaveTransition{
		From: current.Status,
		To:   to,
		By:   p.Actor(),
		At:   s.now(),
		Note: note,
	})
	if errors.Is(err, domain.ErrNotFound) {
		reread, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return s.invalid(reread, to)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("leave_id", id).
		Str("to", string(to)).
		Str("actor", p.Actor()).
		Msg("leave request decided")
	return &ports.LeaveActionResult{Message: message, Leave: updated, Changed: true}, nil
}

func (s *LeaveService) invalid(current *domain.Leave, to domain.LeaveStatus) (*ports.LeaveActionResult, error) {
	if s.mode == TransitionIgnore {
		return &ports.LeaveActionResult{
			Message: unchangedMessage("Leave request", string(current.Status)),
			Leave:   current,
		}, nil
	}
	return nil, &domain.TransitionError{Entity: "Leave request", ID: current.ID, From: string(current.Status), To: string(to)}
}
