package handler

import (
	"strings"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

func toDomainEmployee(req employeeRequest) (domain.Employee, error) {
	hireDate, err := parseDate("hireDate", req.HireDate)
	if err != nil {
		return domain.Employee{}, err
	}
	dob, err := parseOptionalDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return domain.Employee{}, err
	}
	return domain.Employee{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		DateOfBirth:  dob,
		HireDate:     hireDate,
		Salary:       req.Salary,
		Status:       domain.EmployeeStatus(req.Status),
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		PositionID:   strings.TrimSpace(req.PositionID),
	}, nil
}

func toEmployeeResponse(v *ports.EmployeeView) *employeeResponse {
	if v == nil {
		return nil
	}
	return &employeeResponse{
		ID:             v.ID,
		FirstName:      v.FirstName,
		LastName:       v.LastName,
		FullName:       v.FullName,
		Email:          v.Email,
		Phone:          v.Phone,
		DateOfBirth:    v.DateOfBirth,
		HireDate:       v.HireDate,
		YearsOfService: v.YearsOfService,
		Salary:         v.Salary,
		Status:         string(v.Status),
		DepartmentID:   v.DepartmentID,
		DepartmentName: v.DepartmentName,
		PositionID:     v.PositionID,
		PositionTitle:  v.PositionTitle,
		CreatedBy:      v.CreatedBy,
		CreatedAt:      v.CreatedAt,
		ModifiedBy:     v.ModifiedBy,
		ModifiedAt:     v.ModifiedAt,
	}
}

func toListEmployeesResponse(r *ports.ListEmployeesResult) listEmployeesResponse {
	items := make([]employeeResponse, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, *toEmployeeResponse(&r.Items[i]))
	}
	return listEmployeesResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

func toEmployeeActionResponse(r *ports.EmployeeActionResult) employeeActionResponse {
	return employeeActionResponse{Message: r.Message, Employee: toEmployeeResponse(r.Employee)}
}
