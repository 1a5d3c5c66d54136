// File: internal/notification/counter.go
package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Counter maintains per-user unread counts incrementally so the badge
// endpoint and the live stream never recount the table per request. Counts
// are primed lazily from the repository on first read, adjusted by deltas
// published after each committed write, and periodically reconciled against
// the table by a background job.
type Counter struct {
	repo   Repository
	logger *zap.Logger

	mu          sync.Mutex
	counts      map[uuid.UUID]int64
	subscribers map[uuid.UUID]map[int]chan int64
	nextSubID   int
}

// NewCounter creates a new unread counter backed by the given repository.
func NewCounter(repo Repository, logger *zap.Logger) *Counter {
	return &Counter{
		repo:        repo,
		logger:      logger,
		counts:      make(map[uuid.UUID]int64),
		subscribers: make(map[uuid.UUID]map[int]chan int64),
	}
}

// Get returns the current unread count for a user, priming it from the
// database on first access.
func (c *Counter) Get(ctx context.Context, userID uuid.UUID) (int64, error) {
	c.mu.Lock()
	if count, ok := c.counts[userID]; ok {
		c.mu.Unlock()
		return count, nil
	}
	c.mu.Unlock()

	count, err := c.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have primed (and adjusted) the entry while we
	// were counting; keep the existing value in that case.
	if existing, ok := c.counts[userID]; ok {
		return existing, nil
	}
	c.counts[userID] = count
	return count, nil
}

// Adjust applies a delta for a user after a committed write. Unprimed users
// are skipped; their next Get reads the authoritative count anyway.
func (c *Counter) Adjust(userID uuid.UUID, delta int64) {
	if delta == 0 {
		return
	}

	c.mu.Lock()
	count, primed := c.counts[userID]
	if !primed {
		c.mu.Unlock()
		return
	}
	count += delta
	if count < 0 {
		c.logger.Warn("Unread count went negative, clamping to zero",
			zap.String("userID", userID.String()), zap.Int64("count", count))
		count = 0
	}
	c.counts[userID] = count
	subs := c.snapshotSubscribersLocked(userID)
	c.mu.Unlock()

	publish(subs, count)
}

// Reconcile recounts every primed user against the table and fixes drift.
// Run periodically from the job scheduler.
func (c *Counter) Reconcile(ctx context.Context) error {
	c.mu.Lock()
	userIDs := make([]uuid.UUID, 0, len(c.counts))
	for userID := range c.counts {
		userIDs = append(userIDs, userID)
	}
	c.mu.Unlock()

	for _, userID := range userIDs {
		actual, err := c.repo.CountUnread(ctx, userID)
		if err != nil {
			return err
		}

		c.mu.Lock()
		cached, primed := c.counts[userID]
		var subs []chan int64
		if primed && cached != actual {
			c.logger.Warn("Unread count drift corrected",
				zap.String("userID", userID.String()),
				zap.Int64("cached", cached),
				zap.Int64("actual", actual))
			c.counts[userID] = actual
			subs = c.snapshotSubscribersLocked(userID)
		}
		c.mu.Unlock()

		publish(subs, actual)
	}
	return nil
}

// Subscribe registers a live listener for a user's unread count. The
// returned cancel function must be called when the listener goes away.
func (c *Counter) Subscribe(userID uuid.UUID) (<-chan int64, func()) {
	ch := make(chan int64, 8)

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	if c.subscribers[userID] == nil {
		c.subscribers[userID] = make(map[int]chan int64)
	}
	c.subscribers[userID][id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if subs, ok := c.subscribers[userID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(c.subscribers, userID)
			}
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// snapshotSubscribersLocked copies the user's subscriber channels so they can
// be published to after the mutex is released. Caller must hold c.mu.
func (c *Counter) snapshotSubscribersLocked(userID uuid.UUID) []chan int64 {
	subs := c.subscribers[userID]
	if len(subs) == 0 {
		return nil
	}
	chans := make([]chan int64, 0, len(subs))
	for _, ch := range subs {
		chans = append(chans, ch)
	}
	return chans
}

// publish sends the count to subscribers without blocking; a slow listener
// just misses an intermediate value.
func publish(subs []chan int64, count int64) {
	for _, ch := range subs {
		select {
		case ch <- count:
		default:
		}
	}
}
