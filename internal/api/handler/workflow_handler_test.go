package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

func TestTimeSheetHandler_Create(t *testing.T) {
	handler := NewTimeSheetHandler(&stubTimeSheetService{
		createFn: func(_ context.Context, _ *domain.Principal, ts domain.TimeSheet) (*domain.TimeSheet, error) {
			if ts.EmployeeID != "e1" || ts.HoursWorked != 7.5 || ts.Project != "Portal" {
				t.Fatalf("unexpected timesheet: %+v", ts)
			}
			if !ts.Date.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("date not parsed: %v", ts.Date)
			}
			ts.ID = "t1"
			ts.Status = domain.TimeSheetDraft
			return &ts, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/v1/timesheets", `{"employeeId":"e1","date":"2024-06-10","hoursWorked":7.5,"project":"Portal"}`)
	withPrincipal(c, "e1", domain.RoleEmployee)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got domain.TimeSheet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "t1" || got.Status != domain.TimeSheetDraft {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestTimeSheetHandler_Transitions(t *testing.T) {
	tests := []struct {
		action  string
		changed bool
	}{
		{"submit", true},
		{"approve", true},
		{"reject", false},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			var gotAction, gotID string
			handler := NewTimeSheetHandler(&stubTimeSheetService{
				stepFn: func(action, id string) (*ports.TimeSheetActionResult, error) {
					gotAction, gotID = action, id
					return &ports.TimeSheetActionResult{
						Message:   "done",
						Changed:   tt.changed,
						TimeSheet: &domain.TimeSheet{ID: id},
					}, nil
				},
			})

			c, rec := newTestContext(http.MethodPost, "/v1/timesheets/t1/"+tt.action, "")
			c.SetParamNames("id")
			c.SetParamValues("t1")
			withPrincipal(c, "m1", domain.RoleManager)

			var err error
			switch tt.action {
			case "submit":
				err = handler.Submit(c)
			case "approve":
				err = handler.Approve(c)
			case "reject":
				err = handler.Reject(c)
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if gotAction != tt.action || gotID != "t1" {
				t.Fatalf("expected %s on t1, got %s on %s", tt.action, gotAction, gotID)
			}

			var resp timeSheetActionResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Changed != tt.changed || resp.TimeSheet == nil || resp.TimeSheet.ID != "t1" {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestTimeSheetHandler_TransitionConflict(t *testing.T) {
	conflict := &domain.TransitionError{Entity: "Timesheet", ID: "t1", From: "Draft", To: "Approved"}
	handler := NewTimeSheetHandler(&stubTimeSheetService{
		stepFn: func(string, string) (*ports.TimeSheetActionResult, error) { return nil, conflict },
	})

	c, _ := newTestContext(http.MethodPost, "/v1/timesheets/t1/approve", "")
	withPrincipal(c, "m1", domain.RoleManager)

	if err := handler.Approve(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestTimeSheetHandler_List_RejectsUnknownStatus(t *testing.T) {
	handler := NewTimeSheetHandler(&stubTimeSheetService{})

	c, _ := newTestContext(http.MethodGet, "/v1/timesheets?status=Paid", "")
	withPrincipal(c, "e1", domain.RoleEmployee)

	if err := handler.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTimeSheetHandler_Hours(t *testing.T) {
	handler := NewTimeSheetHandler(&stubTimeSheetService{
		hoursFn: func(_ context.Context, _ *domain.Principal, employeeID string) (*domain.TimeSheetHours, error) {
			return &domain.TimeSheetHours{EmployeeID: employeeID, TotalHours: 40, WeeklyHours: 16}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/v1/employees/e1/timesheet-hours", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")
	withPrincipal(c, "e1", domain.RoleEmployee)
	if err := handler.Hours(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got domain.TimeSheetHours
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.EmployeeID != "e1" || got.TotalHours != 40 || got.WeeklyHours != 16 {
		t.Fatalf("unexpected hours: %+v", got)
	}
}

func TestLeaveHandler_Create(t *testing.T) {
	handler := NewLeaveHandler(&stubLeaveService{
		createFn: func(_ context.Context, _ *domain.Principal, l domain.Leave) (*domain.Leave, error) {
			if l.Type != domain.LeaveVacation || l.StartDate.Day() != 1 || l.EndDate.Day() != 5 {
				t.Fatalf("unexpected leave: %+v", l)
			}
			l.ID, l.Status = "l1", domain.LeavePending
			return &l, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/v1/leaves", `{"employeeId":"e1","startDate":"2024-07-01","endDate":"2024-07-05","type":"Vacation"}`)
	withPrincipal(c, "e1", domain.RoleEmployee)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLeaveHandler_Create_UnknownType(t *testing.T) {
	handler := NewLeaveHandler(&stubLeaveService{})

	c, _ := newTestContext(http.MethodPost, "/v1/leaves", `{"employeeId":"e1","startDate":"2024-07-01","endDate":"2024-07-05","type":"Sabbatical"}`)
	withPrincipal(c, "e1", domain.RoleEmployee)

	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaveHandler_ApprovePassesComments(t *testing.T) {
	var got string
	handler := NewLeaveHandler(&stubLeaveService{
		approveFn: func(_ context.Context, _ *domain.Principal, id, comments string) (*ports.LeaveActionResult, error) {
			got = comments
			return &ports.LeaveActionResult{Message: "Leave request approved", Changed: true, Leave: &domain.Leave{ID: id, Status: domain.LeaveApproved}}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/v1/leaves/l1/approve", `{"comments":"enjoy"}`)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withPrincipal(c, "m1", domain.RoleManager)
	if err := handler.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "enjoy" {
		t.Fatalf("comments not passed: %q", got)
	}

	var resp leaveActionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Changed || resp.Leave == nil || resp.Leave.Status != domain.LeaveApproved {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLeaveHandler_RejectWithoutBody(t *testing.T) {
	var got = "unset"
	handler := NewLeaveHandler(&stubLeaveService{
		rejectFn: func(_ context.Context, _ *domain.Principal, id, reason string) (*ports.LeaveActionResult, error) {
			got = reason
			return &ports.LeaveActionResult{Message: "Leave request rejected", Changed: true, Leave: &domain.Leave{ID: id}}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/v1/leaves/l1/reject", "")
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withPrincipal(c, "m1", domain.RoleManager)
	if err := handler.Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "" || rec.Code != http.StatusOK {
		t.Fatalf("expected empty reason and 200, got %q %d", got, rec.Code)
	}
}

func TestLeaveHandler_ApproveDenied(t *testing.T) {
	denied := &domain.AuthorizationError{Permission: domain.PermLeaveApprove, Reason: "Insufficient permissions to approve leave requests"}
	handler := NewLeaveHandler(&stubLeaveService{
		approveFn: func(context.Context, *domain.Principal, string, string) (*ports.LeaveActionResult, error) {
			return nil, denied
		},
	})

	c, _ := newTestContext(http.MethodPost, "/v1/leaves/l1/approve", "")
	withPrincipal(c, "e1", domain.RoleEmployee)

	if err := handler.Approve(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLeaveHandler_Balance(t *testing.T) {
	handler := NewLeaveHandler(&stubLeaveService{
		balanceFn: func(_ context.Context, _ *domain.Principal, employeeID string) (*domain.LeaveBalance, error) {
			return &domain.LeaveBalance{EmployeeID: employeeID, AnnualLeave: 20, SickLeave: 10, PersonalLeave: 5}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/v1/employees/e1/leave-balance", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")
	withPrincipal(c, "e1", domain.RoleEmployee)
	if err := handler.Balance(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got domain.LeaveBalance
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.AnnualLeave != 20 || got.EmployeeID != "e1" {
		t.Fatalf("unexpected balance: %+v", got)
	}
}
