package domain

import (
	"fmt"
	"strings"
	"time"
)

// LeaveStatus represents the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

var leaveTransitions = map[LeaveStatus][]LeaveStatus{
	LeavePending: {LeaveApproved, LeaveRejected},
}

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	for _, allowed := range leaveTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveVacation  LeaveType = "Vacation"
	LeaveSick      LeaveType = "Sick"
	LeavePersonal  LeaveType = "Personal"
	LeaveMaternity LeaveType = "Maternity"
	LeavePaternity LeaveType = "Paternity"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveVacation, LeaveSick, LeavePersonal, LeaveMaternity, LeavePaternity:
		return true
	}
	return false
}

// Leave is an employee's request for time off.
type Leave struct {
	ID              string      `json:"id" bson:"_id"`
	EmployeeID      string      `json:"employeeId" bson:"employee_id"`
	StartDate       time.Time   `json:"startDate" bson:"start_date"`
	EndDate         time.Time   `json:"endDate" bson:"end_date"`
	Type            LeaveType   `json:"type" bson:"type"`
	Reason          string      `json:"reason,omitempty" bson:"reason,omitempty"`
	Status          LeaveStatus `json:"status" bson:"status"`
	Comments        string      `json:"comments,omitempty" bson:"comments,omitempty"`
	RejectionReason string      `json:"rejectionReason,omitempty" bson:"rejection_reason,omitempty"`
	ApprovedBy      string      `json:"approvedBy,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time  `json:"approvedAt,omitempty" bson:"approved_at,omitempty"`
	RejectedBy      string      `json:"rejectedBy,omitempty" bson:"rejected_by,omitempty"`
	RejectedAt      *time.Time  `json:"rejectedAt,omitempty" bson:"rejected_at,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"created_at"`
	ModifiedAt      *time.Time  `json:"modifiedAt,omitempty" bson:"modified_at,omitempty"`
}

func (l *Leave) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(l.EmployeeID) == "" {
		v.Add("Employee ID is required")
	}
	if l.StartDate.IsZero() {
		v.Add("Start date is required")
	}
	if l.EndDate.IsZero() {
		v.Add("End date is required")
	}
	if !l.StartDate.IsZero() && !l.EndDate.IsZero() && l.EndDate.Before(l.StartDate) {
		v.Add("End date cannot be before start date")
	}
	if !l.Type.Valid() {
		v.Add(fmt.Sprintf("Unknown leave type %q", l.Type))
	}
	return v.OrNil()
}

// Days is the inclusive number of calendar days the leave spans.
func (l *Leave) Days() int {
	if l.StartDate.IsZero() || l.EndDate.IsZero() || l.EndDate.Before(l.StartDate) {
		return 0
	}
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// LeaveTransition is a single stamped decision on a leave request.
type LeaveTransition struct {
	From LeaveStatus
	To   LeaveStatus
	By   string
	At   time.Time
	Note string // approval comments or rejection reason
}

// Apply writes the decision and its stamp.
func (tr LeaveTransition) Apply(l *Leave) {
	at := tr.At
	l.Status = tr.To
	switch tr.To {
	case LeaveApproved:
		l.ApprovedBy, l.ApprovedAt = tr.By, &at
		l.Comments = tr.Note
	case LeaveRejected:
		l.RejectedBy, l.RejectedAt = tr.By, &at
		l.RejectionReason = tr.Note
	}
	l.ModifiedAt = &at
}

// LeaveEntitlement is the yearly allowance per balance bucket, in days.
type LeaveEntitlement struct {
	AnnualLeave   int
	SickLeave     int
	PersonalLeave int
}

// LeaveBalance is what remains of the entitlement.
type LeaveBalance struct {
	EmployeeID    string `json:"employeeId"`
	AnnualLeave   int    `json:"annualLeave"`
	SickLeave     int    `json:"sickLeave"`
	PersonalLeave int    `json:"personalLeave"`
}

// Remaining subtracts the days of approved leave from the entitlement.
// Maternity and paternity leave do not draw from any bucket. Balances never
// go below zero.
func (e LeaveEntitlement) Remaining(employeeID string, approved []*Leave) LeaveBalance {
	b := LeaveBalance{
		EmployeeID:    employeeID,
		AnnualLeave:   e.AnnualLeave,
		SickLeave:     e.SickLeave,
		PersonalLeave: e.PersonalLeave,
	}
	for _, l := range approved {
		if l == nil || l.Status != LeaveApproved {
			continue
		}
		switch l.Type {
		case LeaveVacation:
			b.AnnualLeave -= l.Days()
		case LeaveSick:
			b.SickLeave -= l.Days()
		case LeavePersonal:
			b.PersonalLeave -= l.Days()
		}
	}
	b.AnnualLeave = max(b.AnnualLeave, 0)
	b.SickLeave = max(b.SickLeave, 0)
	b.PersonalLeave = max(b.PersonalLeave, 0)
	return b
}
