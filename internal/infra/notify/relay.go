// Package notify provides the in-memory notification relay: short-lived
// messages that disappear after a TTL or when dismissed.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// Relay is a thread-safe list of active notifications in insertion order.
type Relay struct {
	mu      sync.Mutex
	items   []domain.Notification
	lastID  int64
	ttl     time.Duration
	now     func() time.Time
	metrics *observability.Metrics

	stop chan struct{}
	once sync.Once
}

// Option configures a Relay.
type Option func(*Relay)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

// WithMetrics counts published notifications by severity.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

// New creates a relay with the given TTL (DefaultTTL when <= 0) and starts
// the background sweep. Call Close to stop it.
func New(ttl time.Duration, opts ...Option) *Relay {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Relay{
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.sweep()
	return r
}

// Add publishes a message. Ids start at the creation time in milliseconds
// and are strictly increasing even for adds within the same millisecond.
func (r *Relay) Add(message string, severity domain.Severity) domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	n := domain.Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	r.items = append(r.items, n)

	if r.metrics != nil {
		r.metrics.IncrNotification(string(severity))
	}
	return n
}

// Dismiss removes the notification early. Unknown or already expired ids
// report false.
func (r *Relay) Dismiss(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(r.now())
	before := len(r.items)
	r.items = slices.DeleteFunc(r.items, func(n domain.Notification) bool { return n.ID == id })
	return len(r.items) != before
}

// Active returns the visible notifications, oldest first.
func (r *Relay) Active() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(r.now())
	return slices.Clone(r.items)
}

// Close stops the background sweep. Safe to call more than once.
func (r *Relay) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *Relay) expireLocked(now time.Time) {
	r.items = slices.DeleteFunc(r.items, func(n domain.Notification) bool {
		return !now.Before(n.ExpiresAt)
	})
}

// sweep periodically drops expired notifications.
func (r *Relay) sweep() {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.expireLocked(r.now())
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}
