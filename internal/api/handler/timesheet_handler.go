package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/api/metrics"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// TimeSheetHandler handles timesheet entries and their approval workflow.
type TimeSheetHandler struct {
	service ports.TimeSheetService
}

func NewTimeSheetHandler(service ports.TimeSheetService) *TimeSheetHandler {
	return &TimeSheetHandler{service: service}
}

type timeSheetRequest struct {
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	HoursWorked float64 `json:"hoursWorked"`
	Project     string  `json:"project"`
	Description string  `json:"description"`
}

type listTimeSheetsQuery struct {
	EmployeeID string `query:"employeeId"`
	Status     string `query:"status" validate:"omitempty,oneof=Draft Submitted Approved Rejected"`
}

type timeSheetActionResponse struct {
	Message   string            `json:"message"`
	Changed   bool              `json:"changed"`
	TimeSheet *domain.TimeSheet `json:"timesheet,omitempty"`
}

// List handles GET /v1/timesheets.
//
// @Summary      List timesheets
// @Description  Non-approvers only see their own entries.
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  query     string  false  "Employee filter"
// @Param        status      query     string  false  "Draft, Submitted, Approved or Rejected"
// @Success      200         {array}   domain.TimeSheet
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/timesheets [get]
func (h *TimeSheetHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var q listTimeSheetsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	items, err := h.service.ListTimeSheets(c.Request().Context(), p, ports.ListTimeSheetsInput{
		EmployeeID: q.EmployeeID,
		Status:     q.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/timesheets/:id.
//
// @Summary      Get a timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  domain.TimeSheet
// @Failure      404  {object}  errorResponse
// @Router       /v1/timesheets/{id} [get]
func (h *TimeSheetHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	ts, err := h.service.GetTimeSheet(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

// Create handles POST /v1/timesheets. New entries start as Draft.
//
// @Summary      Log time
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      timeSheetRequest  true  "Timesheet entry"
// @Success      201   {object}  domain.TimeSheet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/timesheets [post]
func (h *TimeSheetHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req timeSheetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	ts, err := h.service.CreateTimeSheet(c.Request().Context(), p, domain.TimeSheet{
		EmployeeID:  req.EmployeeID,
		Date:        date,
		HoursWorked: req.HoursWorked,
		Project:     req.Project,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ts)
}

// Submit handles POST /v1/timesheets/:id/submit.
//
// @Summary      Submit a draft timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  timeSheetActionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/timesheets/{id}/submit [post]
func (h *TimeSheetHandler) Submit(c echo.Context) error {
	return h.transition(c, domain.TimeSheetSubmitted, h.service.SubmitTimeSheet)
}

// Approve handles POST /v1/timesheets/:id/approve.
//
// @Summary      Approve a submitted timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  timeSheetActionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/timesheets/{id}/approve [post]
func (h *TimeSheetHandler) Approve(c echo.Context) error {
	return h.transition(c, domain.TimeSheetApproved, h.service.ApproveTimeSheet)
}

// Reject handles POST /v1/timesheets/:id/reject.
//
// @Summary      Reject a submitted timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  timeSheetActionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/timesheets/{id}/reject [post]
func (h *TimeSheetHandler) Reject(c echo.Context) error {
	return h.transition(c, domain.TimeSheetRejected, h.service.RejectTimeSheet)
}

type timeSheetStep func(ctx context.Context, p *domain.Principal, id string) (*ports.TimeSheetActionResult, error)

func (h *TimeSheetHandler) transition(c echo.Context, to domain.TimeSheetStatus, step timeSheetStep) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	result, err := step(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ObserveTransition("timesheet", string(to), result.Changed)
	return c.JSON(http.StatusOK, timeSheetActionResponse{
		Message:   result.Message,
		Changed:   result.Changed,
		TimeSheet: result.TimeSheet,
	})
}

// Delete handles DELETE /v1/timesheets/:id. Only drafts can be deleted.
//
// @Summary      Delete a draft timesheet
// @Tags         timesheets
// @Security     BearerAuth
// @Param        id   path  string  true  "Timesheet ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/timesheets/{id} [delete]
func (h *TimeSheetHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTimeSheet(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Hours handles GET /v1/employees/:id/timesheet-hours.
//
// @Summary      Counted hours of an employee
// @Description  Sums Submitted and Approved entries; weeklyHours covers the last 7 days.
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  domain.TimeSheetHours
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees/{id}/timesheet-hours [get]
func (h *TimeSheetHandler) Hours(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	hours, err := h.service.TimeSheetHours(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hours)
}
