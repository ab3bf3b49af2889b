package domain

import (
	"fmt"
	"strings"
	"time"
)

// EmployeeStatus is the employment state shown on the employee form.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "Active"
	EmployeeInactive   EmployeeStatus = "Inactive"
	EmployeeOnLeave    EmployeeStatus = "OnLeave"
	EmployeeTerminated EmployeeStatus = "Terminated"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeOnLeave, EmployeeTerminated:
		return true
	}
	return false
}

// MinimumHireAge is the youngest age, in calendar years, at which an
// employee may be hired.
const MinimumHireAge = 16

// Employee is the core personnel record.
type Employee struct {
	ID           string         `json:"id" bson:"_id"`
	FirstName    string         `json:"firstName" bson:"first_name"`
	LastName     string         `json:"lastName" bson:"last_name"`
	Email        string         `json:"email" bson:"email"`
	Phone        string         `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth  *time.Time     `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	HireDate     time.Time      `json:"hireDate" bson:"hire_date"`
	Salary       *float64       `json:"salary,omitempty" bson:"salary,omitempty"`
	Status       EmployeeStatus `json:"status" bson:"status"`
	DepartmentID string         `json:"departmentId,omitempty" bson:"department_id,omitempty"`
	PositionID   string         `json:"positionId,omitempty" bson:"position_id,omitempty"`
	CreatedBy    string         `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt    *time.Time     `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	ModifiedBy   string         `json:"modifiedBy,omitempty" bson:"modified_by,omitempty"`
	ModifiedAt   *time.Time     `json:"modifiedAt,omitempty" bson:"modified_at,omitempty"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// YearsOfService is the calendar-year difference between now and the hire
// date.
func (e *Employee) YearsOfService(now time.Time) int {
	if e.HireDate.IsZero() {
		return 0
	}
	years := now.Year() - e.HireDate.Year()
	if years < 0 {
		return 0
	}
	return years
}

// Validate checks the employee form rules against the supplied clock
// reading.
func (e *Employee) Validate(now time.Time) error {
	v := &ValidationError{}

	if strings.TrimSpace(e.FirstName) == "" {
		v.Add("First name is required")
	}
	if strings.TrimSpace(e.LastName) == "" {
		v.Add("Last name is required")
	}

	switch email := strings.TrimSpace(e.Email); {
	case email == "":
		v.Add("Email is required")
	case !ValidEmail(email):
		v.Add("Please enter a valid email address")
	}

	if e.HireDate.IsZero() {
		v.Add("Hire date is required")
	} else if e.HireDate.After(now) {
		v.Add("Hire date cannot be in the future")
	}

	if e.DateOfBirth != nil && !e.HireDate.IsZero() {
		if e.HireDate.Year()-e.DateOfBirth.Year() < MinimumHireAge {
			v.Add(fmt.Sprintf("Employee must be at least %d years old at hire date", MinimumHireAge))
		}
	}

	if e.Phone != "" && !ValidPhone(e.Phone) {
		v.Add("Please enter a valid phone number")
	}
	if e.Salary != nil && *e.Salary < 0 {
		v.Add("Salary cannot be negative")
	}
	if e.Status != "" && !e.Status.Valid() {
		v.Add(fmt.Sprintf("Unknown employee status %q", e.Status))
	}

	return v.OrNil()
}

// EmployeeChanges is a partial update applied as one write. Nil fields are
// left untouched.
type EmployeeChanges struct {
	DepartmentID *string
	PositionID   *string
	Salary       *float64
	ModifiedBy   string
	ModifiedAt   time.Time
}

// Apply mutates e in place.
func (c EmployeeChanges) Apply(e *Employee) {
	if c.DepartmentID != nil {
		e.DepartmentID = *c.DepartmentID
	}
	if c.PositionID != nil {
		e.PositionID = *c.PositionID
	}
	if c.Salary != nil {
		salary := *c.Salary
		e.Salary = &salary
	}
	e.ModifiedBy = c.ModifiedBy
	at := c.ModifiedAt
	e.ModifiedAt = &at
}

// DepartmentStatistic aggregates employees per department.
type DepartmentStatistic struct {
	DepartmentID   string  `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	EmployeeCount  int64   `json:"employeeCount"`
	AverageSalary  float64 `json:"averageSalary"`
}
