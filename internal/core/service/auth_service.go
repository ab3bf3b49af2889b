package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

// demoAccounts are created by SeedDemoAccounts; each password equals the
// username.
var demoAccounts = []struct {
	username  string
	firstName string
	lastName  string
	role      domain.Role
}{
	{"admin", "System", "Administrator", domain.RoleAdmin},
	{"manager", "Department", "Manager", domain.RoleManager},
	{"employee", "Regular", "Employee", domain.RoleEmployee},
}

// AuthService implements registration, login and session lifecycle.
type AuthService struct {
	repo      ports.IdentityRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.IdentityRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an employee-role identity and signs it in.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, reg.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(reg.Email)); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	identity, err := s.createIdentity(ctx, domain.Identity{
		Username:  strings.TrimSpace(reg.Username),
		Email:     domain.NormalizeEmail(reg.Email),
		FirstName: strings.TrimSpace(reg.FirstName),
		LastName:  strings.TrimSpace(reg.LastName),
		Phone:     strings.TrimSpace(reg.Phone),
		Role:      domain.RoleEmployee,
		IsActive:  true,
	}, reg.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("identity_id", identity.ID).Str("username", identity.Username).Msg("identity registered")
	return s.openSession(ctx, identity)
}

// Login accepts either a username or an email address.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.Session, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return nil, domain.NewValidationError("Username and password are required")
	}

	identity, err := s.lookup(ctx, login)
	if err != nil {
		return nil, err
	}
	if !identity.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidPassword
	}

	return s.openSession(ctx, identity)
}

// Logout drops the identity's session. Dropping an absent session succeeds.
func (s *AuthService) Logout(ctx context.Context, identityID string) error {
	if identityID == "" {
		return nil
	}
	return s.sessions.Clear(ctx, identityID)
}

func (s *AuthService) CurrentSession(ctx context.Context, identityID string) (*domain.Session, error) {
	if identityID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Load(ctx, identityID)
}

// SeedDemoAccounts creates the built-in demo identities that are missing.
func (s *AuthService) SeedDemoAccounts(ctx context.Context) error {
	for _, acct := range demoAccounts {
		_, err := s.repo.FindByUsername(ctx, acct.username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		created, err := s.createIdentity(ctx, domain.Identity{
			Username:  acct.username,
			Email:     acct.username + "@company.com",
			FirstName: acct.firstName,
			LastName:  acct.lastName,
			Role:      acct.role,
			IsActive:  true,
		}, acct.username)
		if err != nil {
			return err
		}
		s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("demo account seeded")
	}
	return nil
}

func (s *AuthService) lookup(ctx context.Context, login string) (*domain.Identity, error) {
	identity, err := s.repo.FindByUsername(ctx, login)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	identity, err = s.repo.FindByEmail(ctx, domain.NormalizeEmail(login))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return identity, err
}

func (s *AuthService) createIdentity(ctx context.Context, identity domain.Identity, password string) (*domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	identity.ID = uuid.NewString()
	identity.PasswordHash = string(hash)
	identity.CreatedAt = now
	identity.UpdatedAt = now
	return s.repo.Create(ctx, &identity)
}

func (s *AuthService) openSession(ctx context.Context, identity *domain.Identity) (*domain.Session, error) {
	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}
	session := domain.Session{Identity: *identity, Token: token}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *AuthService) generateToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":      identity.ID,
		"username": identity.Username,
		"role":     string(identity.Role),
		"exp":      s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
