package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

const (
	defaultSessionTTL = 24 * time.Hour

	fieldCurrentUser = "currentUser"
	fieldAuthToken   = "authToken"
)

// SessionStore keeps one session per identity.
// Key format: session:<identity_id>, a hash holding currentUser and authToken.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose entries expire after ttl.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Save replaces any live session of the identity.
func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	user, err := json.Marshal(session.Identity)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	key := s.key(session.Identity.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldCurrentUser, user, fieldAuthToken, session.Token)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", mapErr(err))
	}
	return nil
}

// Load returns domain.ErrSessionNotFound when nothing is stored.
func (s *SessionStore) Load(ctx context.Context, identityID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(identityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", mapErr(err))
	}
	user, token := fields[fieldCurrentUser], fields[fieldAuthToken]
	if user == "" || token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{Token: token}
	if err := json.Unmarshal([]byte(user), &session.Identity); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return session, nil
}

// Clear drops the session. Clearing an absent session succeeds.
func (s *SessionStore) Clear(ctx context.Context, identityID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(identityID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", mapErr(err))
	}
	return nil
}

func (s *SessionStore) key(identityID string) string {
	return "session:" + identityID
}

// mapErr marks connection failures and timeouts as domain.ErrUnavailable.
func mapErr(err error) error {
	var netErr net.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}
