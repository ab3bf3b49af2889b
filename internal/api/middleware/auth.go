package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// SessionLoader returns the live session stored for an identity.
type SessionLoader interface {
	CurrentSession(ctx context.Context, identityID string) (*domain.Session, error)
}

// PrincipalResolver binds an identity to the permissions of its role.
type PrincipalResolver interface {
	Principal(identity domain.Identity) *domain.Principal
}

// Auth validates the JWT, checks it against the stored session and injects
// the caller's principal into context.
//
// A token is accepted only while it is the token of the identity's live
// session, so logging out or signing in again revokes it.
func Auth(jwtSecret string, sessions SessionLoader, policy PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			identityID, _ := claims["sub"].(string)
			if identityID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			session, err := sessions.CurrentSession(c.Request().Context(), identityID)
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or revoked")
			case err != nil:
				return err
			}
			if session.Token != parts[1] || !session.Identity.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or revoked")
			}

			c.Set("session", session)
			c.Set("principal", policy.Principal(session.Identity))
			c.Set("username", session.Identity.Username)
			c.Set("role", string(session.Identity.Role))

			return next(c)
		}
	}
}
