package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/adapter/sheets"
)

// Loader reloads the order set from the store.
type Loader interface {
	Load(ctx context.Context) error
}

// Refresher periodically reloads orders so changes made by other writers
// show up. Failures are logged; when the store asks to back off, ticks are
// skipped until the hinted time has passed.
type Refresher struct {
	periodic
	loader Loader
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewRefresher constructs the background reloader.
func NewRefresher(loader Loader, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	r := &Refresher{loader: loader, logger: logger, now: time.Now}
	r.periodic = periodic{interval: interval, fn: r.refresh}
	return r
}

func (r *Refresher) refresh(ctx context.Context) {
	now := r.now()
	r.mu.Lock()
	paused := now.Before(r.pausedUntil)
	r.mu.Unlock()
	if paused {
		r.logger.Debug("refresh skipped while rate limited")
		return
	}

	err := r.loader.Load(ctx)
	if err == nil {
		return
	}
	if retry, ok := sheets.IsRateLimited(err); ok {
		r.mu.Lock()
		r.pausedUntil = now.Add(retry)
		r.mu.Unlock()
		r.logger.Warn("store rate limited refresh", slog.Duration("retry_after", retry))
		return
	}
	r.logger.Error("background refresh failed", slog.String("error", err.Error()))
}
