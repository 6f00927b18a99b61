// Package store owns durable principal records and their uniqueness rules.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"identity_wallet/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Registration holds the fields supplied when a principal signs up
type Registration struct {
	Email       string
	Username    string
	PhoneNumber string
	Password    string // Raw password, hashed before it is stored
}

// CredentialStore persists principals. It never emits audit events;
// callers record the transitions they cause.
type CredentialStore struct {
	db       *gorm.DB
	hashCost int
}

// NewCredentialStore creates a store hashing passwords at bcrypt.DefaultCost
func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost
func (s *CredentialStore) WithHashCost(cost int) *CredentialStore {
	s.hashCost = cost
	return s
}

// Register creates a principal with an unverified email and a fresh wallet.
// It returns domain.ErrDuplicateIdentity if the email or username is taken.
func (s *CredentialStore) Register(ctx context.Context, r Registration) (*domain.Principal, error) {
	taken, err := s.identityTaken(ctx, r.Email, r.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateIdentity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	p := &domain.Principal{
		Email:         r.Email,
		Username:      r.Username,
		PhoneNumber:   r.PhoneNumber,
		Password:      string(hash),
		EmailVerified: false,
		Status:        domain.PresenceOffline,
		LastSeen:      time.Now(),
		Wallet:        domain.NewWallet(uuid.NewString()),
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		// A concurrent registration may win the race past the pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateIdentity
		}
		if again, terr := s.identityTaken(ctx, r.Email, r.Username, 0); terr == nil && again {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, persistence("create principal", err)
	}

	logrus.WithFields(logrus.Fields{
		"principal_id": p.ID,
		"wallet_id":    p.Wallet.ID,
	}).Info("Principal registered")
	return p, nil
}

// CheckPassword reports whether raw matches the principal's stored hash
func (s *CredentialStore) CheckPassword(p *domain.Principal, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(raw)) == nil
}

// FindByID returns domain.ErrNotFound when no principal has the id
func (s *CredentialStore) FindByID(ctx context.Context, id uint) (*domain.Principal, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindByIdentity looks a principal up by email; domain.ErrNotFound when absent
func (s *CredentialStore) FindByIdentity(ctx context.Context, email string) (*domain.Principal, error) {
	return s.findOne(ctx, "email = ?", email)
}

// FindByUsername looks a principal up by username; domain.ErrNotFound when absent
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return s.findOne(ctx, "username = ?", username)
}

// FindByWalletID returns the owner of a wallet; domain.ErrNotFound when absent
func (s *CredentialStore) FindByWalletID(ctx context.Context, walletID string) (*domain.Principal, error) {
	return s.findOne(ctx, "wallet_id = ?", walletID)
}

// Update applies the non-nil fields of upd. Email and username changes are
// rejected with domain.ErrDuplicateIdentity when another principal holds them.
func (s *CredentialStore) Update(ctx context.Context, id uint, upd domain.PrincipalUpdate) (*domain.Principal, error) {
	var p domain.Principal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return persistence("load principal", err)
		}

		email, username := "", ""
		if upd.Email != nil && *upd.Email != p.Email {
			email = *upd.Email
		}
		if upd.Username != nil && *upd.Username != p.Username {
			username = *upd.Username
		}
		if email != "" || username != "" {
			var count int64
			q := tx.Model(&domain.Principal{}).Where("id <> ?", id)
			switch {
			case email != "" && username != "":
				q = q.Where("email = ? OR username = ?", email, username)
			case email != "":
				q = q.Where("email = ?", email)
			default:
				q = q.Where("username = ?", username)
			}
			if err := q.Count(&count).Error; err != nil {
				return persistence("check identity", err)
			}
			if count > 0 {
				return domain.ErrDuplicateIdentity
			}
		}

		cols := upd.Columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&p).Updates(cols).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateIdentity
			}
			return persistence("update principal", err)
		}
		return tx.First(&p, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the principals matching f, ordered by id
func (s *CredentialStore) List(ctx context.Context, f domain.Filter) ([]domain.Principal, error) {
	q := s.db.WithContext(ctx).Model(&domain.Principal{})
	switch f.Kind {
	case domain.FilterByPresence:
		q = q.Where("status = ?", f.Value)
	case domain.FilterByPhone:
		q = q.Where("phone_number = ?", f.Value)
	case domain.FilterByEmail:
		q = q.Where("email = ?", f.Value)
	case domain.FilterByUsername:
		q = q.Where("username = ?", f.Value)
	case domain.FilterByWalletID:
		q = q.Where("wallet_id = ?", f.Value)
	case domain.FilterByWalletActive:
		q = q.Where("wallet_is_active = ?", f.Active)
	}
	principals := []domain.Principal{}
	if err := q.Order("id asc").Find(&principals).Error; err != nil {
		return nil, persistence("list principals", err)
	}
	return principals, nil
}

func (s *CredentialStore) findOne(ctx context.Context, query string, args ...any) (*domain.Principal, error) {
	var p domain.Principal
	if err := s.db.WithContext(ctx).Where(query, args...).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, persistence("find principal", err)
	}
	return &p, nil
}

func (s *CredentialStore) identityTaken(ctx context.Context, email, username string, excludeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Principal{}).
		Where("email = ? OR username = ?", email, username).
		Where("id <> ?", excludeID).
		Count(&count).Error
	if err != nil {
		return false, persistence("check identity", err)
	}
	return count > 0, nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
