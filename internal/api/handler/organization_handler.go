package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// OrganizationHandler serves the department and position catalogues.
type OrganizationHandler struct {
	service ports.OrganizationService
}

func NewOrganizationHandler(service ports.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type positionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

// ListDepartments handles GET /v1/departments.
//
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Department
// @Failure      403  {object}  errorResponse
// @Router       /v1/departments [get]
func (h *OrganizationHandler) ListDepartments(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListDepartments(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetDepartment handles GET /v1/departments/:id.
//
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  domain.Department
// @Failure      404  {object}  errorResponse
// @Router       /v1/departments/{id} [get]
func (h *OrganizationHandler) GetDepartment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	d, err := h.service.GetDepartment(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// CreateDepartment handles POST /v1/departments.
//
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      departmentRequest  true  "Department"
// @Success      201   {object}  domain.Department
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/departments [post]
func (h *OrganizationHandler) CreateDepartment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req departmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.CreateDepartment(c.Request().Context(), p, domain.Department{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// UpdateDepartment handles PUT /v1/departments/:id.
//
// @Summary      Replace a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Department ID"
// @Param        body  body      departmentRequest  true  "Department"
// @Success      200   {object}  domain.Department
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/departments/{id} [put]
func (h *OrganizationHandler) UpdateDepartment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req departmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.UpdateDepartment(c.Request().Context(), p, c.Param("id"), domain.Department{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteDepartment handles DELETE /v1/departments/:id.
//
// @Summary      Delete a department
// @Tags         departments
// @Security     BearerAuth
// @Param        id   path  string  true  "Department ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/departments/{id} [delete]
func (h *OrganizationHandler) DeleteDepartment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteDepartment(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPositions handles GET /v1/positions.
//
// @Summary      List positions
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Position
// @Failure      403  {object}  errorResponse
// @Router       /v1/positions [get]
func (h *OrganizationHandler) ListPositions(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListPositions(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetPosition handles GET /v1/positions/:id.
//
// @Summary      Get a position
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Position ID"
// @Success      200  {object}  domain.Position
// @Failure      404  {object}  errorResponse
// @Router       /v1/positions/{id} [get]
func (h *OrganizationHandler) GetPosition(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	pos, err := h.service.GetPosition(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pos)
}

// CreatePosition handles POST /v1/positions.
//
// @Summary      Create a position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      positionRequest  true  "Position"
// @Success      201   {object}  domain.Position
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/positions [post]
func (h *OrganizationHandler) CreatePosition(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req positionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pos, err := h.service.CreatePosition(c.Request().Context(), p, domain.Position{Title: req.Title, Description: req.Description, Level: req.Level})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pos)
}

// UpdatePosition handles PUT /v1/positions/:id.
//
// @Summary      Replace a position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Position ID"
// @Param        body  body      positionRequest  true  "Position"
// @Success      200   {object}  domain.Position
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/positions/{id} [put]
func (h *OrganizationHandler) UpdatePosition(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req positionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pos, err := h.service.UpdatePosition(c.Request().Context(), p, c.Param("id"), domain.Position{Title: req.Title, Description: req.Description, Level: req.Level})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pos)
}

// DeletePosition handles DELETE /v1/positions/:id.
//
// @Summary      Delete a position
// @Tags         positions
// @Security     BearerAuth
// @Param        id   path  string  true  "Position ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/positions/{id} [delete]
func (h *OrganizationHandler) DeletePosition(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePosition(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
