package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"identity_wallet/internal/domain"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// ErrInvalidSession is returned for unknown, revoked or expired sessions
var ErrInvalidSession = errors.New("invalid or expired session")

// Session is the authenticated context returned by Login. Callers pass it
// back explicitly; nothing about it is held in process state.
type Session struct {
	ID          string    `json:"id"`           // ULID, also the token's jti
	PrincipalID uint      `json:"principal_id"` // Bound principal
	Token       string    `json:"token"`        // Signed bearer token
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionRegistry tracks live sessions in Redis; a token is honoured only
// while its session key exists.
type SessionRegistry struct {
	rdb *redis.Client
}

// NewSessionRegistry creates a registry backed by rdb
func NewSessionRegistry(rdb *redis.Client) *SessionRegistry {
	return &SessionRegistry{rdb: rdb}
}

// Register stores the session until it expires
func (r *SessionRegistry) Register(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidSession
	}
	key := sessionKeyPrefix + s.ID
	if err := r.rdb.Set(ctx, key, strconv.FormatUint(uint64(s.PrincipalID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("%w: register session: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Lookup returns the principal bound to a live session
func (r *SessionRegistry) Lookup(ctx context.Context, sessionID string) (uint, error) {
	val, err := r.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return 0, ErrInvalidSession
	} else if err != nil {
		return 0, fmt.Errorf("%w: lookup session: %v", domain.ErrPersistence, err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}
	return uint(id), nil
}

// Revoke deletes the session and reports whether it was live
func (r *SessionRegistry) Revoke(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Del(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: revoke session: %v", domain.ErrPersistence, err)
	}
	return n > 0, nil
}
