package ledger

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"identity_wallet/internal/domain"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.EventKind
}

func (r *recordingEmitter) Emit(kind domain.EventKind, email, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind)
}

func setupTestLedger(t *testing.T, auditFunding bool) (*Ledger, *gorm.DB, *recordingEmitter) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Principal{}))
	emitter := &recordingEmitter{}
	return NewLedger(db, emitter, auditFunding), db, emitter
}

// setupFileLedger uses a WAL database file so concurrent funding runs on
// separate connections
func setupFileLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Principal{}))
	return NewLedger(db, &recordingEmitter{}, false), db
}

func seedPrincipal(t *testing.T, db *gorm.DB) *domain.Principal {
	t.Helper()
	p := &domain.Principal{
		Email:    "jay@example.com",
		Username: "jay",
		Password: "hash",
		Status:   domain.PresenceOffline,
		Wallet:   domain.NewWallet(uuid.NewString()),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func balanceOf(t *testing.T, db *gorm.DB, id uint) domain.Wallet {
	t.Helper()
	var p domain.Principal
	require.NoError(t, db.First(&p, id).Error)
	return p.Wallet
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"50", "50", false},
		{" 12.5 ", "12.5", false},
		{"0.019", "0.02", false},
		{"0", "", true},
		{"-5", "", true},
		{"0.001", "", true},
		{"abc", "", true},
		{"", "", true},
		{"999999999999999999.99", "999999999999999999.99", false},
		{"1e18", "", true},
		{"1e30", "", true},
		{"1e400", "", true},
		{"1e50000000", "", true},
		{"1e-50000000", "", true},
		{"1" + strings.Repeat("0", 80), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), got.String())
		})
	}
}

func TestFund(t *testing.T) {
	l, db, emitter := setupTestLedger(t, true)
	p := seedPrincipal(t, db)

	owner, err := l.Fund(context.Background(), p.Wallet.ID, decimal.NewFromFloat(50.25))
	require.NoError(t, err)
	assert.Equal(t, p.ID, owner.ID)
	assert.True(t, decimal.NewFromFloat(50.25).Equal(owner.Wallet.Balance), owner.Wallet.Balance.String())
	assert.True(t, owner.Wallet.IsActive)

	owner, err = l.Fund(context.Background(), p.Wallet.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(60.25).Equal(owner.Wallet.Balance), owner.Wallet.Balance.String())
	assert.True(t, owner.Wallet.IsActive)
	assert.Equal(t, []domain.EventKind{domain.EventFunding, domain.EventFunding}, emitter.events)
}

func TestFund_InvalidAmount(t *testing.T) {
	l, db, emitter := setupTestLedger(t, true)
	p := seedPrincipal(t, db)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5), decimal.New(1, 30)} {
		_, err := l.Fund(context.Background(), p.Wallet.ID, amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	w := balanceOf(t, db, p.ID)
	assert.True(t, w.Balance.IsZero())
	assert.False(t, w.IsActive)
	assert.Empty(t, emitter.events)
}

func TestFund_UnknownWallet(t *testing.T) {
	l, db, _ := setupTestLedger(t, true)
	seedPrincipal(t, db)

	_, err := l.Fund(context.Background(), "missing", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrUnknownWallet)
}

func TestFund_ConcurrentNoLostUpdate(t *testing.T) {
	l, db := setupFileLedger(t)
	p := seedPrincipal(t, db)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Fund(context.Background(), p.Wallet.ID, decimal.NewFromFloat(50.0))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	w := balanceOf(t, db, p.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(w.Balance), w.Balance.String())
}

func TestFund_ConcurrentMany(t *testing.T) {
	l, db := setupFileLedger(t)
	p := seedPrincipal(t, db)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := l.Fund(context.Background(), p.Wallet.ID, decimal.RequireFromString("2.50"))
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	w := balanceOf(t, db, p.ID)
	assert.True(t, decimal.NewFromInt(50).Equal(w.Balance), w.Balance.String())
	assert.True(t, w.IsActive)
}

func TestFund_AuditDisabled(t *testing.T) {
	l, db, emitter := setupTestLedger(t, false)
	p := seedPrincipal(t, db)

	_, err := l.Fund(context.Background(), p.Wallet.ID, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Empty(t, emitter.events)
}
