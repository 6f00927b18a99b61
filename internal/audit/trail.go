// Package audit keeps the append-only, chronological event log.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"identity_wallet/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultPageSize is the number of events per audit trail page
const DefaultPageSize = 10

// appendTimeout bounds a single background append
const appendTimeout = 5 * time.Second

type entry struct {
	kind     domain.EventKind
	email    string
	username string
}

// Trail appends audit events and pages through them in insertion order.
// Emit queues events for a single background writer, so events for one
// principal are stored in the order they were emitted.
type Trail struct {
	db     *gorm.DB
	queue  chan entry
	mu     sync.RWMutex // guards closed against concurrent Emit
	closed bool
	wg     sync.WaitGroup // pending queued events
	done   chan struct{}
}

// NewTrail starts the background writer with room for buffer queued events
func NewTrail(db *gorm.DB, buffer int) *Trail {
	if buffer < 1 {
		buffer = 1
	}
	t := &Trail{
		db:    db,
		queue: make(chan entry, buffer),
		done:  make(chan struct{}),
	}
	go t.run()
	return t
}

// Append synchronously persists one event
func (t *Trail) Append(ctx context.Context, kind domain.EventKind, email, username string) (*domain.AuditEvent, error) {
	event := &domain.AuditEvent{
		CreatedAt:   time.Now(),
		Kind:        kind,
		Email:       email,
		Username:    username,
		Description: domain.Describe(kind, email),
	}
	if err := t.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuditAppend, err)
	}
	return event, nil
}

// Emit queues an event without waiting for it to be stored. Failures,
// including a full queue, are logged and never reach the caller.
func (t *Trail) Emit(kind domain.EventKind, email, username string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		logrus.WithField("kind", kind).Warn("Audit trail closed, event dropped")
		return
	}
	t.wg.Add(1)
	select {
	case t.queue <- entry{kind: kind, email: email, username: username}:
	default:
		t.wg.Done()
		logrus.WithFields(logrus.Fields{
			"kind":  kind,
			"email": email,
			"error": domain.ErrAuditAppend.Error(),
		}).Error("Audit queue full, event dropped")
	}
}

// Flush blocks until every queued event has been written or dropped
func (t *Trail) Flush() {
	t.wg.Wait()
}

// Close drains the queue and stops the background writer
func (t *Trail) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()
	<-t.done
}

func (t *Trail) run() {
	defer close(t.done)
	for e := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		if _, err := t.Append(ctx, e.kind, e.email, e.username); err != nil {
			logrus.WithFields(logrus.Fields{
				"kind":  e.kind,
				"email": e.email,
				"error": err.Error(),
			}).Error("Audit append failed")
		}
		cancel()
		t.wg.Done()
	}
}

// Page returns the events of a 1-indexed page in insertion order together
// with the total page count. Pages outside [1, totalPages] are empty.
func (t *Trail) Page(ctx context.Context, page, pageSize int) ([]domain.AuditEvent, int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	var total int64
	if err := t.db.WithContext(ctx).Model(&domain.AuditEvent{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count audit events: %v", domain.ErrPersistence, err)
	}
	totalPages := (int(total) + pageSize - 1) / pageSize // ceil(total / pageSize)

	events := []domain.AuditEvent{}
	if page < 1 || page > totalPages {
		return events, totalPages, nil
	}
	offset := (page - 1) * pageSize
	if err := t.db.WithContext(ctx).Order("id asc").Offset(offset).Limit(pageSize).Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: fetch audit events: %v", domain.ErrPersistence, err)
	}
	return events, totalPages, nil
}
