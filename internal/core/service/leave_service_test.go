package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

var testEntitlement = domain.LeaveEntitlement{AnnualLeave: 25, SickLeave: 10, PersonalLeave: 5}

func newLeaveFixture(mode TransitionMode, leaves ...*domain.Leave) (*LeaveService, *stubLeaveRepo) {
	employees := newStubEmployeeRepo(seededEmployees()...)
	repo := newStubLeaveRepo(leaves...)
	svc := NewLeaveService(repo, employees, authz.NewGate(employees), mode, testEntitlement, nopLogger())
	svc.now = fixedClock
	return svc, repo
}

func leaveRequest(id, employeeID string, typ domain.LeaveType, status domain.LeaveStatus, start time.Time, days int) *domain.Leave {
	return &domain.Leave{
		ID:         id,
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, days-1),
		Type:       typ,
		Status:     status,
		CreatedAt:  start,
	}
}

func TestLeaveService_Approve(t *testing.T) {
	svc, repo := newLeaveFixture(TransitionReject, leaveRequest("l1", "e-ann", domain.LeaveVacation, domain.LeavePending, fixedNow, 3))

	res, err := svc.ApproveLeave(context.Background(), managerPrincipal, "l1", " enjoy ")
	if err != nil {
		t.Fatalf("ApproveLeave: %v", err)
	}
	if res.Message != "Leave request approved" || !res.Changed {
		t.Errorf("unexpected result %+v", res)
	}
	got := repo.byID["l1"]
	if got.Status != domain.LeaveApproved || got.ApprovedBy != "boss@company.com" || got.ApprovedAt == nil || got.Comments != "enjoy" {
		t.Fatalf("approval not stamped: %+v", got)
	}
}

func TestLeaveService_ApproveWithoutPermission(t *testing.T) {
	svc, repo := newLeaveFixture(TransitionReject, leaveRequest("l1", "e-ann", domain.LeaveVacation, domain.LeavePending, fixedNow, 3))

	_, err := svc.ApproveLeave(context.Background(), annPrincipal, "l1", "")
	var authErr *domain.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("want AuthorizationError, got %v", err)
	}
	if authErr.Permission != domain.PermLeaveApprove {
		t.Errorf("permission: got %q", authErr.Permission)
	}
	if repo.writes != 0 || repo.byID["l1"].Status != domain.LeavePending || repo.byID["l1"].ApprovedBy != "" {
		t.Fatalf("L1 must be unchanged")
	}
}

func TestLeaveService_RejectWithReason(t *testing.T) {
	svc, repo := newLeaveFixture(TransitionReject,
		leaveRequest("l1", "e-ann", domain.LeaveSick, domain.LeavePending, fixedNow, 1),
		leaveRequest("l2", "e-ann", domain.LeaveSick, domain.LeavePending, fixedNow, 1),
	)

	res, err := svc.RejectLeave(context.Background(), managerPrincipal, "l1", "Peak season")
	if err != nil {
		t.Fatalf("RejectLeave: %v", err)
	}
	if res.Message != "Leave request rejected: Peak season" {
		t.Errorf("message: %q", res.Message)
	}
	if got := repo.byID["l1"]; got.RejectionReason != "Peak season" || got.RejectedBy != "boss@company.com" {
		t.Fatalf("rejection not stamped: %+v", got)
	}

	res, err = svc.RejectLeave(context.Background(), managerPrincipal, "l2", "")
	if err != nil || res.Message != "Leave request rejected" {
		t.Fatalf("reject without reason: %+v, %v", res, err)
	}
}

func TestLeaveService_DecidedRequest(t *testing.T) {
	approved := leaveRequest("l1", "e-ann", domain.LeaveVacation, domain.LeaveApproved, fixedNow, 2)

	t.Run("reject mode", func(t *testing.T) {
		svc, repo := newLeaveFixture(TransitionReject, approved)
		_, err := svc.RejectLeave(context.Background(), managerPrincipal, "l1", "")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("want ErrConflict, got %v", err)
		}
		if repo.byID["l1"].Status != domain.LeaveApproved {
			t.Fatalf("record must be unchanged")
		}
	})

	t.Run("ignore mode", func(t *testing.T) {
		svc, repo := newLeaveFixture(TransitionIgnore, approved)
		res, err := svc.RejectLeave(context.Background(), managerPrincipal, "l1", "")
		if err != nil {
			t.Fatalf("ignore mode must not fail: %v", err)
		}
		if res.Changed || res.Leave.Status != domain.LeaveApproved || repo.writes != 0 {
			t.Fatalf("expected a no-op, got %+v", res)
		}
	})
}

func TestLeaveService_DecisionsFollowStateMachine(t *testing.T) {
	all := []domain.LeaveStatus{domain.LeavePending, domain.LeaveApproved, domain.LeaveRejected}

	for _, from := range all {
		for _, to := range []domain.LeaveStatus{domain.LeaveApproved, domain.LeaveRejected} {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				svc, repo := newLeaveFixture(TransitionReject, leaveRequest("l1", "e-ann", domain.LeaveSick, from, fixedNow, 1))

				var (
					res *ports.LeaveActionResult
					err error
				)
				if to == domain.LeaveApproved {
					res, err = svc.ApproveLeave(context.Background(), managerPrincipal, "l1", "")
				} else {
					res, err = svc.RejectLeave(context.Background(), managerPrincipal, "l1", "")
				}

				if from.CanTransitionTo(to) {
					if err != nil || res.Leave.Status != to {
						t.Fatalf("allowed decision failed: %v", err)
					}
					return
				}
				if !errors.Is(err, domain.ErrConflict) || repo.writes != 0 {
					t.Fatalf("disallowed decision: want ErrConflict and no write, got %v (%d writes)", err, repo.writes)
				}
			})
		}
	}
}

func TestLeaveService_MissingID(t *testing.T) {
	svc, _ := newLeaveFixture(TransitionReject)

	_, err := svc.ApproveLeave(context.Background(), managerPrincipal, "", "")
	if !errors.Is(err, domain.ErrValidation) || err.Error() != "Leave ID is required" {
		t.Fatalf("want missing id validation error, got %v", err)
	}
}

func TestLeaveService_Create(t *testing.T) {
	svc, repo := newLeaveFixture(TransitionReject)
	ctx := context.Background()
	req := domain.Leave{EmployeeID: "e-ann", StartDate: fixedNow, EndDate: fixedNow.AddDate(0, 0, 2), Type: domain.LeaveVacation, Reason: "Trip"}

	created, err := svc.CreateLeave(ctx, annPrincipal, req)
	if err != nil {
		t.Fatalf("CreateLeave: %v", err)
	}
	if created.Status != domain.LeavePending || created.ID == "" {
		t.Fatalf("unexpected leave %+v", created)
	}

	if _, err := svc.CreateLeave(ctx, bobPrincipal, req); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("filing for someone else: want ErrForbidden, got %v", err)
	}

	bad := req
	bad.EndDate = req.StartDate.AddDate(0, 0, -1)
	if _, err := svc.CreateLeave(ctx, annPrincipal, bad); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("end before start: want validation error, got %v", err)
	}
	if repo.writes != 1 {
		t.Fatalf("want 1 write, got %d", repo.writes)
	}
}

func TestLeaveService_ListIsOwnerScoped(t *testing.T) {
	svc, _ := newLeaveFixture(TransitionReject,
		leaveRequest("l1", "e-ann", domain.LeaveVacation, domain.LeavePending, fixedNow, 1),
		leaveRequest("l2", "e-bob", domain.LeaveVacation, domain.LeavePending, fixedNow, 1),
	)
	ctx := context.Background()

	own, err := svc.ListLeaves(ctx, annPrincipal, ports.ListLeavesInput{})
	if err != nil || len(own) != 1 || own[0].ID != "l1" {
		t.Fatalf("want only own leave, got %+v (%v)", own, err)
	}

	none, err := svc.ListLeaves(ctx, principalFor(domain.RoleEmployee, "ghost@company.com"), ports.ListLeavesInput{})
	if err != nil || len(none) != 0 {
		t.Fatalf("unresolved identity must see nothing, got %d (%v)", len(none), err)
	}

	all, err := svc.ListLeaves(ctx, managerPrincipal, ports.ListLeavesInput{})
	if err != nil || len(all) != 2 {
		t.Fatalf("approver should see all, got %d (%v)", len(all), err)
	}

	if _, err := svc.GetLeave(ctx, bobPrincipal, "l1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign leave should read as not found, got %v", err)
	}
}

func TestLeaveService_Balance(t *testing.T) {
	thisYear := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	lastYear := time.Date(2023, time.December, 27, 0, 0, 0, 0, time.UTC)
	svc, _ := newLeaveFixture(TransitionReject,
		leaveRequest("l1", "e-ann", domain.LeaveVacation, domain.LeaveApproved, thisYear, 5),
		leaveRequest("l2", "e-ann", domain.LeaveSick, domain.LeaveApproved, thisYear.AddDate(0, 1, 0), 2),
		leaveRequest("l3", "e-ann", domain.LeavePersonal, domain.LeavePending, thisYear, 1),
		leaveRequest("l4", "e-ann", domain.LeaveVacation, domain.LeaveApproved, lastYear, 3),
		leaveRequest("l5", "e-ann", domain.LeaveMaternity, domain.LeaveApproved, thisYear, 30),
	)

	balance, err := svc.LeaveBalance(context.Background(), annPrincipal, "e-ann")
	if err != nil {
		t.Fatalf("LeaveBalance: %v", err)
	}
	want := domain.LeaveBalance{EmployeeID: "e-ann", AnnualLeave: 20, SickLeave: 8, PersonalLeave: 5}
	if *balance != want {
		t.Fatalf("want %+v, got %+v", want, *balance)
	}
}

func TestLeaveBalance_OwnRecordOrAdmin(t *testing.T) {
	svc, _ := newLeaveFixture(TransitionReject)
	ctx := context.Background()

	if _, err := svc.LeaveBalance(ctx, bobPrincipal, "e-ann"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if _, err := svc.LeaveBalance(ctx, managerPrincipal, "e-ann"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("managers are not admins, got %v", err)
	}
	if _, err := svc.LeaveBalance(ctx, adminPrincipal, "e-ann"); err != nil {
		t.Fatalf("admin may read any balance: %v", err)
	}
}
