package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// AuthService is the identity use-case surface used by the transport layer.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.Session, error)
	Logout(ctx context.Context, identityID string) error
	CurrentSession(ctx context.Context, identityID string) (*domain.Session, error)
}
