// Package profile applies self-service identity changes.
package profile

import (
	"context"
	"errors"

	"identity_wallet/internal/domain"

	"github.com/sirupsen/logrus"
)

// Updater applies partial principal updates
type Updater interface {
	Update(ctx context.Context, id uint, upd domain.PrincipalUpdate) (*domain.Principal, error)
}

// Emitter records audit events without blocking the caller
type Emitter interface {
	Emit(kind domain.EventKind, email, username string)
}

// Service changes a principal's own identity fields
type Service struct {
	store Updater
	audit Emitter
}

// NewService creates a profile service
func NewService(store Updater, audit Emitter) *Service {
	return &Service{store: store, audit: audit}
}

// Update changes the principal's email and username. Empty values keep the
// current one. A taken email or username yields domain.ErrDuplicateIdentity.
func (s *Service) Update(ctx context.Context, principalID uint, email, username string) (*domain.Principal, error) {
	var upd domain.PrincipalUpdate
	if email != "" {
		upd.Email = &email
	}
	if username != "" {
		upd.Username = &username
	}
	p, err := s.store.Update(ctx, principalID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			logrus.WithFields(logrus.Fields{"principal_id": principalID, "email": email}).Warn("Profile update attempted but new email already exists")
		}
		return nil, err
	}
	s.audit.Emit(domain.EventProfileUpdate, p.Email, p.Username)
	return p, nil
}
