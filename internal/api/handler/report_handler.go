package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/ports"
)

// ReportHandler serves the dashboard figures.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type employeeCountResponse struct {
	Count int64 `json:"count"`
}

// EmployeeCount handles GET /v1/reports/employee-count.
//
// @Summary      Headcount
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeCountResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/reports/employee-count [get]
func (h *ReportHandler) EmployeeCount(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	count, err := h.service.EmployeeCount(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employeeCountResponse{Count: count})
}

// DepartmentStatistics handles GET /v1/reports/department-statistics.
//
// @Summary      Headcount and average salary per department
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.DepartmentStatistic
// @Failure      403  {object}  errorResponse
// @Router       /v1/reports/department-statistics [get]
func (h *ReportHandler) DepartmentStatistics(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.service.DepartmentStatistics(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
