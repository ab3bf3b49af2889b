package ports

import (
	"context"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

// IdentityRepository is the account directory. Username and email lookups are
// case-insensitive.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// SessionStore keeps the live session of each client context. Load returns
// domain.ErrSessionNotFound when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context, identityID string) (*domain.Session, error)
	Clear(ctx context.Context, identityID string) error
}
