package handler

import "time"

// --- Request / Response types ---

type employeeRequest struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"        validate:"omitempty,email"`
	Phone        string   `json:"phone"        validate:"omitempty,phone"`
	DateOfBirth  string   `json:"dateOfBirth"`
	HireDate     string   `json:"hireDate"`
	Salary       *float64 `json:"salary"       validate:"omitempty,gte=0"`
	Status       string   `json:"status"       validate:"omitempty,oneof=Active Inactive OnLeave Terminated"`
	DepartmentID string   `json:"departmentId"`
	PositionID   string   `json:"positionId"`
}

type listEmployeesQuery struct {
	Search       string `query:"search"`
	Status       string `query:"status"`
	DepartmentID string `query:"departmentId"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder"    validate:"omitempty,oneof=asc desc"`
	Page         int    `query:"page"         validate:"gte=0,lte=1000000"`
	Limit        int    `query:"limit"        validate:"gte=0"`
}

type promoteRequest struct {
	PositionID string   `json:"positionId" validate:"required"`
	Salary     *float64 `json:"salary"     validate:"omitempty,gte=0"`
}

type transferRequest struct {
	DepartmentID string `json:"departmentId" validate:"required"`
}

type salaryRequest struct {
	Salary *float64 `json:"salary" validate:"required,gte=0"`
}

// Response-only types owned by the transport layer.

type employeeResponse struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	HireDate       time.Time  `json:"hireDate"`
	YearsOfService int        `json:"yearsOfService"`
	Salary         *float64   `json:"salary,omitempty"`
	Status         string     `json:"status"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	PositionID     string     `json:"positionId,omitempty"`
	PositionTitle  string     `json:"positionTitle,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	ModifiedBy     string     `json:"modifiedBy,omitempty"`
	ModifiedAt     *time.Time `json:"modifiedAt,omitempty"`
}

type listEmployeesResponse struct {
	Items      []employeeResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

type employeeActionResponse struct {
	Message  string            `json:"message"`
	Employee *employeeResponse `json:"employee,omitempty"`
}
