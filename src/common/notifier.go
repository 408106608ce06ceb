package common

import (
	"sync"
	"time"

	"descubre/src/models"
	"descubre/src/types"
)

// Notifier is the user-facing message channel consumed by the checkout
// core. Implementations are fire-and-forget; the core never reads back.
type Notifier interface {
	Notify(message string, severity types.Severity, duration ...time.Duration)
}

// NotificationBus collects notifications for clients to drain. It is
// registered once at application start and injected wherever messages are
// emitted. Persist, when set, receives a copy of every notification.
type NotificationBus struct {
	mu      sync.Mutex
	items   []models.Notification
	limit   int
	Persist func(n models.Notification)
}

func NewNotificationBus(limit int) *NotificationBus {
	if limit <= 0 {
		limit = 100
	}
	return &NotificationBus{limit: limit}
}

func (b *NotificationBus) Notify(message string, severity types.Severity, duration ...time.Duration) {
	n := models.Notification{
		Message:  message,
		Severity: severity,
	}
	if len(duration) > 0 {
		n.Duration = duration[0].Milliseconds()
	}
	b.mu.Lock()
	b.items = append(b.items, n)
	if len(b.items) > b.limit {
		b.items = b.items[len(b.items)-b.limit:]
	}
	persist := b.Persist
	b.mu.Unlock()
	if persist != nil {
		go persist(n)
	}
}

// Drain returns the pending notifications and clears the queue.
func (b *NotificationBus) Drain() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items
	b.items = nil
	return items
}
