package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/api/metrics"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for employee records.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /v1/employees.
//
// @Summary      List employees
// @Description  Rows are limited to the caller's read scope.
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        search        query     string  false  "Substring of first name, last name or email"
// @Param        status        query     string  false  "Active, Inactive, OnLeave or Terminated"
// @Param        departmentId  query     string  false  "Department filter"
// @Param        sortBy        query     string  false  "firstName, lastName, email, hireDate or salary"
// @Param        sortOrder     query     string  false  "asc or desc"
// @Param        page          query     int     false  "Page number, from 1"
// @Param        limit         query     int     false  "Page size, at most 100"
// @Success      200           {object}  listEmployeesResponse
// @Failure      400           {object}  errorResponse
// @Failure      403           {object}  errorResponse
// @Router       /v1/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var q listEmployeesQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	result, err := h.service.ListEmployees(c.Request().Context(), p, ports.ListEmployeesInput{
		Search:       q.Search,
		Status:       q.Status,
		DepartmentID: q.DepartmentID,
		SortBy:       q.SortBy,
		Descending:   q.SortOrder == "desc",
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListEmployeesResponse(result))
}

// Get handles GET /v1/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  employeeResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetEmployee(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// Create handles POST /v1/employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeRequest  true  "Employee details"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := toDomainEmployee(req)
	if err != nil {
		return err
	}

	view, err := h.service.CreateEmployee(c.Request().Context(), p, e)
	if err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toEmployeeResponse(view))
}

// Update handles PUT /v1/employees/:id.
//
// @Summary      Replace an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Employee ID"
// @Param        body  body      employeeRequest  true  "Employee details"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := toDomainEmployee(req)
	if err != nil {
		return err
	}

	view, err := h.service.UpdateEmployee(c.Request().Context(), p, c.Param("id"), e)
	if err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toEmployeeResponse(view))
}

// Delete handles DELETE /v1/employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  string  true  "Employee ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteEmployee(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Promote handles POST /v1/employees/:id/promote.
//
// @Summary      Promote an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Employee ID"
// @Param        body  body      promoteRequest  true  "New position and optional salary"
// @Success      200   {object}  employeeActionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/employees/{id}/promote [post]
func (h *EmployeeHandler) Promote(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req promoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.PromoteEmployee(c.Request().Context(), p, c.Param("id"), req.PositionID, req.Salary)
	if err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("promote").Inc()
	return c.JSON(http.StatusOK, toEmployeeActionResponse(result))
}

// Transfer handles POST /v1/employees/:id/transfer.
//
// @Summary      Transfer an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Employee ID"
// @Param        body  body      transferRequest  true  "Target department"
// @Success      200   {object}  employeeActionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/employees/{id}/transfer [post]
func (h *EmployeeHandler) Transfer(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req transferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.TransferEmployee(c.Request().Context(), p, c.Param("id"), req.DepartmentID)
	if err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("transfer").Inc()
	return c.JSON(http.StatusOK, toEmployeeActionResponse(result))
}

// UpdateSalary handles POST /v1/employees/:id/salary.
//
// @Summary      Change an employee's salary
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Employee ID"
// @Param        body  body      salaryRequest  true  "New salary"
// @Success      200   {object}  employeeActionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/employees/{id}/salary [post]
func (h *EmployeeHandler) UpdateSalary(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req salaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Salary == nil {
		return domain.NewValidationError("salary is required")
	}

	result, err := h.service.UpdateSalary(c.Request().Context(), p, c.Param("id"), *req.Salary)
	if err != nil {
		return err
	}
	metrics.EmployeeActionsTotal.WithLabelValues("salary").Inc()
	return c.JSON(http.StatusOK, toEmployeeActionResponse(result))
}
