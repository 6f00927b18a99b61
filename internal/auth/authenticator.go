// Package auth implements login/logout sessions and email verification.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"identity_wallet/internal/domain"
	"identity_wallet/internal/utils"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// PrincipalStore is the subset of the credential store used by this package
type PrincipalStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Principal, error)
	FindByIdentity(ctx context.Context, email string) (*domain.Principal, error)
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	Update(ctx context.Context, id uint, upd domain.PrincipalUpdate) (*domain.Principal, error)
	CheckPassword(p *domain.Principal, raw string) bool
}

// Emitter records audit events without blocking the caller
type Emitter interface {
	Emit(kind domain.EventKind, email, username string)
}

// Authenticator drives the Anonymous -> Authenticated -> LoggedOut session lifecycle
type Authenticator struct {
	store    PrincipalStore
	sessions *SessionRegistry
	audit    Emitter
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthenticator creates an authenticator issuing sessions valid for ttl
func NewAuthenticator(store PrincipalStore, sessions *SessionRegistry, audit Emitter, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		store:    store,
		sessions: sessions,
		audit:    audit,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the credential, then the verification gate, marks the
// principal online and opens a session. Unknown users and wrong passwords
// both yield domain.ErrInvalidCredential.
func (a *Authenticator) Login(ctx context.Context, identityOrUsername, rawPassword string) (*Session, error) {
	p, err := a.store.FindByIdentity(ctx, identityOrUsername)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = a.store.FindByUsername(ctx, identityOrUsername)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}
	if !a.store.CheckPassword(p, rawPassword) {
		return nil, domain.ErrInvalidCredential
	}
	if !p.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	now := a.now()
	session := &Session{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String(),
		PrincipalID: p.ID,
		IssuedAt:    now,
		ExpiresAt:   now.Add(a.ttl),
	}
	session.Token, err = utils.GenerateJWT(p.ID, session.ID, now, a.ttl, a.secret)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Register(ctx, session); err != nil {
		return nil, err
	}

	online := domain.PresenceOnline
	if _, err := a.store.Update(ctx, p.ID, domain.PrincipalUpdate{Status: &online, LastSeen: &now}); err != nil {
		// Presence failed, so the session must not outlive this call
		if _, rerr := a.sessions.Revoke(ctx, session.ID); rerr != nil {
			logrus.WithFields(logrus.Fields{"session_id": session.ID, "error": rerr.Error()}).Error("Failed to revoke session")
		}
		logrus.WithFields(logrus.Fields{"principal_id": p.ID, "error": err.Error()}).Error("Failed to update presence after login")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"principal_id": p.ID, "session_id": session.ID}).Info("Successfully updated user after login")
	a.audit.Emit(domain.EventLogin, p.Email, p.Username)
	return session, nil
}

// Logout revokes the session, marks the principal offline and records a
// Logout event. A session that is no longer live is a no-op.
func (a *Authenticator) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	live, err := a.sessions.Revoke(ctx, session.ID)
	if err != nil {
		return err
	}
	if !live {
		return nil
	}

	p, err := a.store.FindByID(ctx, session.PrincipalID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := a.now()
	offline := domain.PresenceOffline
	if _, err := a.store.Update(ctx, p.ID, domain.PrincipalUpdate{Status: &offline, LastSeen: &now}); err != nil {
		logrus.WithFields(logrus.Fields{"principal_id": p.ID, "error": err.Error()}).Error("Failed to update presence after logout")
		return err
	}

	logrus.WithField("principal_id", p.ID).Info("Successfully updated user after logout")
	a.audit.Emit(domain.EventLogout, p.Email, p.Username)
	return nil
}

// Authenticate resolves a bearer token to its live session
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.ParseJWT(token, a.secret)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	principalID, err := a.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if principalID != claims.PrincipalID {
		return nil, ErrInvalidSession
	}
	s := &Session{
		ID:          claims.ID,
		PrincipalID: principalID,
		Token:       token,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
