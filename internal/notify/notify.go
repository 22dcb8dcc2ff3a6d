// Package notify delivers SLA alerts to in-process subscribers, logs and brokers.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// Notifier receives alerts raised by the SLA monitor.
type Notifier interface {
	Notify(ctx context.Context, alert model.Alert) error
}

// subscriberBuffer is the number of alerts a subscriber may lag behind.
const subscriberBuffer = 16

// Hub fans alerts out to subscribers and keeps a bounded history.
// Subscribers that do not keep up lose alerts rather than blocking the monitor.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan model.Alert
	nextID  int
	history []model.Alert
	limit   int
	logger  *slog.Logger
}

// NewHub creates a hub retaining the last limit alerts.
func NewHub(limit int, logger *slog.Logger) *Hub {
	if limit <= 0 {
		limit = 1
	}
	return &Hub{
		subs:   make(map[int]chan model.Alert),
		limit:  limit,
		logger: logger,
	}
}

// Notify records alert and delivers it to every subscriber.
func (h *Hub) Notify(_ context.Context, alert model.Alert) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, alert)
	if over := len(h.history) - h.limit; over > 0 {
		h.history = append(h.history[:0:0], h.history[over:]...)
	}

	for id, ch := range h.subs {
		select {
		case ch <- alert:
		default:
			h.logger.Warn("alert dropped for slow subscriber", slog.Int("subscriber", id), slog.String("alert", alert.ID))
		}
	}
	return nil
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan model.Alert, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan model.Alert, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Recent returns up to n alerts, newest first. n <= 0 returns the whole history.
func (h *Hub) Recent(n int) []model.Alert {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.history) {
		n = len(h.history)
	}
	out := make([]model.Alert, 0, n)
	for i := len(h.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.history[i])
	}
	return out
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, alert model.Alert) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes alerts to the log at a level matching their severity.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(ctx context.Context, alert model.Alert) error {
	level := slog.LevelWarn
	if alert.Severity == model.SeverityError {
		level = slog.LevelError
	}
	l.Logger.LogAttrs(ctx, level, alert.Message,
		slog.String("alert", alert.ID),
		slog.String("kind", string(alert.Kind)),
		slog.String("order", alert.OrderID),
		slog.Int("minutes", alert.Minutes),
	)
	return nil
}
