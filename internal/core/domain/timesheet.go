package domain

import (
	"strings"
	"time"
)

// TimeSheetStatus represents the lifecycle state of a timesheet entry.
type TimeSheetStatus string

const (
	TimeSheetDraft     TimeSheetStatus = "Draft"
	TimeSheetSubmitted TimeSheetStatus = "Submitted"
	TimeSheetApproved  TimeSheetStatus = "Approved"
	TimeSheetRejected  TimeSheetStatus = "Rejected"
)

// timeSheetTransitions defines the allowed state machine transitions.
var timeSheetTransitions = map[TimeSheetStatus][]TimeSheetStatus{
	TimeSheetDraft:     {TimeSheetSubmitted},
	TimeSheetSubmitted: {TimeSheetApproved, TimeSheetRejected},
}

func (s TimeSheetStatus) Valid() bool {
	switch s {
	case TimeSheetDraft, TimeSheetSubmitted, TimeSheetApproved, TimeSheetRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TimeSheetStatus) CanTransitionTo(next TimeSheetStatus) bool {
	for _, allowed := range timeSheetTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Counted reports whether hours in this state count towards worked totals.
func (s TimeSheetStatus) Counted() bool {
	return s == TimeSheetSubmitted || s == TimeSheetApproved
}

// MaxDailyHours bounds a single timesheet entry.
const MaxDailyHours = 24

// TimeSheet is one day of recorded work for an employee.
type TimeSheet struct {
	ID          string          `json:"id" bson:"_id"`
	EmployeeID  string          `json:"employeeId" bson:"employee_id"`
	Date        time.Time       `json:"date" bson:"date"`
	HoursWorked float64         `json:"hoursWorked" bson:"hours_worked"`
	Project     string          `json:"project,omitempty" bson:"project,omitempty"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Status      TimeSheetStatus `json:"status" bson:"status"`
	SubmittedBy string          `json:"submittedBy,omitempty" bson:"submitted_by,omitempty"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty" bson:"submitted_at,omitempty"`
	ApprovedBy  string          `json:"approvedBy,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt  *time.Time      `json:"approvedAt,omitempty" bson:"approved_at,omitempty"`
	RejectedBy  string          `json:"rejectedBy,omitempty" bson:"rejected_by,omitempty"`
	RejectedAt  *time.Time      `json:"rejectedAt,omitempty" bson:"rejected_at,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
	ModifiedAt  *time.Time      `json:"modifiedAt,omitempty" bson:"modified_at,omitempty"`
}

func (t *TimeSheet) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(t.EmployeeID) == "" {
		v.Add("Employee ID is required")
	}
	if t.Date.IsZero() {
		v.Add("Date is required")
	}
	if t.HoursWorked <= 0 || t.HoursWorked > MaxDailyHours {
		v.Add("Hours worked must be greater than 0 and at most 24")
	}
	return v.OrNil()
}

// TimeSheetTransition is a single stamped status change.
type TimeSheetTransition struct {
	From TimeSheetStatus
	To   TimeSheetStatus
	By   string
	At   time.Time
}

// Apply writes the new status and the actor/timestamp stamp matching it.
func (tr TimeSheetTransition) Apply(t *TimeSheet) {
	at := tr.At
	t.Status = tr.To
	switch tr.To {
	case TimeSheetSubmitted:
		t.SubmittedBy, t.SubmittedAt = tr.By, &at
	case TimeSheetApproved:
		t.ApprovedBy, t.ApprovedAt = tr.By, &at
	case TimeSheetRejected:
		t.RejectedBy, t.RejectedAt = tr.By, &at
	}
	t.ModifiedAt = &at
}

// TimeSheetHours summarises counted hours for an employee.
type TimeSheetHours struct {
	EmployeeID  string  `json:"employeeId"`
	TotalHours  float64 `json:"totalHours"`
	WeeklyHours float64 `json:"weeklyHours"`
}
