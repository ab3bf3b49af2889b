package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// absence means the route was mounted without Auth; reject with 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil || p.Identity.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindAndValidate decodes the request into req and runs the struct rules.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or an RFC 3339 timestamp. An empty value
// yields the zero time so domain validation reports it as missing.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError(field + " must be a date (YYYY-MM-DD)")
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	t, err := parseDate(field, value)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// messageResponse acknowledges an action without a body.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
