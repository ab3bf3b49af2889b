package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/api/metrics"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// LeaveHandler handles leave requests and their decisions.
type LeaveHandler struct {
	service ports.LeaveService
}

func NewLeaveHandler(service ports.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

type leaveRequest struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Type       string `json:"type"   validate:"omitempty,oneof=Vacation Sick Personal Maternity Paternity"`
	Reason     string `json:"reason"`
}

type listLeavesQuery struct {
	EmployeeID string `query:"employeeId"`
	Status     string `query:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
}

type approveLeaveRequest struct {
	Comments string `json:"comments"`
}

type rejectLeaveRequest struct {
	Reason string `json:"reason"`
}

type leaveActionResponse struct {
	Message string        `json:"message"`
	Changed bool          `json:"changed"`
	Leave   *domain.Leave `json:"leave,omitempty"`
}

// List handles GET /v1/leaves.
//
// @Summary      List leave requests
// @Description  Non-approvers only see their own requests.
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  query     string  false  "Employee filter"
// @Param        status      query     string  false  "Pending, Approved or Rejected"
// @Success      200         {array}   domain.Leave
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/leaves [get]
func (h *LeaveHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var q listLeavesQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	items, err := h.service.ListLeaves(c.Request().Context(), p, ports.ListLeavesInput{
		EmployeeID: q.EmployeeID,
		Status:     q.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/leaves/:id.
//
// @Summary      Get a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave ID"
// @Success      200  {object}  domain.Leave
// @Failure      404  {object}  errorResponse
// @Router       /v1/leaves/{id} [get]
func (h *LeaveHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	l, err := h.service.GetLeave(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// Create handles POST /v1/leaves. New requests start as Pending.
//
// @Summary      Request leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      leaveRequest  true  "Leave request"
// @Success      201   {object}  domain.Leave
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/leaves [post]
func (h *LeaveHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req leaveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return err
	}

	l, err := h.service.CreateLeave(c.Request().Context(), p, domain.Leave{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Type:       domain.LeaveType(req.Type),
		Reason:     req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

// Approve handles POST /v1/leaves/:id/approve.
//
// @Summary      Approve a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true   "Leave ID"
// @Param        body  body      approveLeaveRequest  false  "Optional comments"
// @Success      200   {object}  leaveActionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req approveLeaveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.service.ApproveLeave(c.Request().Context(), p, c.Param("id"), req.Comments)
	if err != nil {
		return err
	}
	return h.decided(c, domain.LeaveApproved, result)
}

// Reject handles POST /v1/leaves/:id/reject.
//
// @Summary      Reject a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Leave ID"
// @Param        body  body      rejectLeaveRequest  false  "Optional reason"
// @Success      200   {object}  leaveActionResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req rejectLeaveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.service.RejectLeave(c.Request().Context(), p, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return h.decided(c, domain.LeaveRejected, result)
}

func (h *LeaveHandler) decided(c echo.Context, to domain.LeaveStatus, result *ports.LeaveActionResult) error {
	metrics.ObserveTransition("leave", string(to), result.Changed)
	return c.JSON(http.StatusOK, leaveActionResponse{
		Message: result.Message,
		Changed: result.Changed,
		Leave:   result.Leave,
	})
}

// Balance handles GET /v1/employees/:id/leave-balance.
//
// @Summary      Remaining leave of an employee
// @Description  Yearly entitlement minus approved leave starting this year.
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  domain.LeaveBalance
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees/{id}/leave-balance [get]
func (h *LeaveHandler) Balance(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	balance, err := h.service.LeaveBalance(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance)
}
