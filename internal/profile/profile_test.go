package profile

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"identity_wallet/internal/domain"
	"identity_wallet/internal/store"
)

type recordingEmitter struct {
	kinds  []domain.EventKind
	emails []string
}

func (r *recordingEmitter) Emit(kind domain.EventKind, email, _ string) {
	r.kinds = append(r.kinds, kind)
	r.emails = append(r.emails, email)
}

func TestUpdate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Principal{}))
	s := store.NewCredentialStore(db).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	p, err := s.Register(ctx, store.Registration{Email: "jay@example.com", Username: "jay", Password: "x"})
	require.NoError(t, err)
	_, err = s.Register(ctx, store.Registration{Email: "kim@example.com", Username: "kim", Password: "x"})
	require.NoError(t, err)

	emitter := &recordingEmitter{}
	svc := NewService(s, emitter)

	updated, err := svc.Update(ctx, p.ID, "jay@new.example.com", "jayden")
	require.NoError(t, err)
	assert.Equal(t, "jay@new.example.com", updated.Email)
	assert.Equal(t, "jayden", updated.Username)
	assert.Equal(t, p.Wallet.ID, updated.Wallet.ID)

	_, err = svc.Update(ctx, p.ID, "kim@example.com", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	assert.Equal(t, []domain.EventKind{domain.EventProfileUpdate}, emitter.kinds)
	assert.Equal(t, []string{"jay@new.example.com"}, emitter.emails)
}
