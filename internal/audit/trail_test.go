package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"identity_wallet/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.AuditEvent{}))
	return db
}

func TestAppend(t *testing.T) {
	trail := NewTrail(setupTestDB(t), 8)
	defer trail.Close()

	event, err := trail.Append(context.Background(), domain.EventLogin, "jay@example.com", "jay")
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.Equal(t, domain.EventLogin, event.Kind)
	assert.Equal(t, "User with email jay@example.com has logged in.", event.Description)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestPage(t *testing.T) {
	trail := NewTrail(setupTestDB(t), 8)
	defer trail.Close()
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := trail.Append(ctx, domain.EventRegistration, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("user%d", i))
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		page      int
		wantCount int
		wantFirst string
	}{
		{"first page", 1, 10, "user0"},
		{"second page", 2, 10, "user10"},
		{"last page", 3, 3, "user20"},
		{"beyond range", 4, 0, ""},
		{"zero", 0, 0, ""},
		{"negative", -1, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, totalPages, err := trail.Page(ctx, tt.page, DefaultPageSize)
			require.NoError(t, err)
			assert.Equal(t, 3, totalPages)
			assert.Len(t, events, tt.wantCount)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, events[0].Username)
			}
		})
	}
}

func TestPage_Empty(t *testing.T) {
	trail := NewTrail(setupTestDB(t), 8)
	defer trail.Close()

	events, totalPages, err := trail.Page(context.Background(), 1, DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, 0, totalPages)
	assert.Empty(t, events)
}

func TestEmit_PreservesOrder(t *testing.T) {
	trail := NewTrail(setupTestDB(t), 64)
	defer trail.Close()

	trail.Emit(domain.EventRegistration, "jay@example.com", "jay")
	trail.Emit(domain.EventLogin, "jay@example.com", "jay")
	trail.Emit(domain.EventLogout, "jay@example.com", "jay")
	trail.Flush()

	events, _, err := trail.Page(context.Background(), 1, DefaultPageSize)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventRegistration, events[0].Kind)
	assert.Equal(t, domain.EventLogin, events[1].Kind)
	assert.Equal(t, domain.EventLogout, events[2].Kind)
}

func TestEmit_FailureIsNotFatal(t *testing.T) {
	db := setupTestDB(t)
	trail := NewTrail(db, 8)
	defer trail.Close()
	require.NoError(t, db.Migrator().DropTable(&domain.AuditEvent{}))

	assert.NotPanics(t, func() {
		trail.Emit(domain.EventLogin, "jay@example.com", "jay")
		trail.Flush()
	})
}

func TestEmit_AfterClose(t *testing.T) {
	trail := NewTrail(setupTestDB(t), 8)
	trail.Close()

	assert.NotPanics(t, func() {
		trail.Emit(domain.EventLogin, "jay@example.com", "jay")
		trail.Close()
	})
}
