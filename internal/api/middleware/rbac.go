package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// RequirePermission lets the request through when the principal set by Auth
// holds at least one of perms.
func RequirePermission(perms ...domain.Permission) echo.MiddlewareFunc {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	reason := "Insufficient permissions: requires " + strings.Join(names, " or ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := c.Get("principal").(*domain.Principal)
			if principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !principal.CanAny(perms...) {
				denied := &domain.AuthorizationError{Reason: reason}
				if len(perms) > 0 {
					denied.Permission = perms[0]
				}
				return denied
			}
			return next(c)
		}
	}
}
