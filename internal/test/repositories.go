package test

import (
	"context"
	"sync"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// OrderStoreStub keeps sheet rows in memory and lets tests override behaviour.
type OrderStoreStub struct {
	mu     sync.Mutex
	Rows   []model.RawRow
	PullFn func(context.Context) ([]model.RawRow, error)
	PushFn func(context.Context, []model.RawRow) error
	pulls  int
	pushes int
}

// NewOrderStoreStub constructs a stub holding rows.
func NewOrderStoreStub(rows ...model.RawRow) *OrderStoreStub {
	return &OrderStoreStub{Rows: rows}
}

// Pull returns a copy of the stored rows unless PullFn is set.
func (s *OrderStoreStub) Pull(ctx context.Context) ([]model.RawRow, error) {
	s.mu.Lock()
	s.pulls++
	fn := s.PullFn
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return s.Snapshot(), nil
}

// Push stores rows unless PushFn is set. A nil error from PushFn also stores rows.
func (s *OrderStoreStub) Push(ctx context.Context, rows []model.RawRow) error {
	s.mu.Lock()
	s.pushes++
	fn := s.PushFn
	s.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, rows); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rows = copyRows(rows)
	return nil
}

// Snapshot returns a copy of the stored rows.
func (s *OrderStoreStub) Snapshot() []model.RawRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.Rows)
}

// Pulls returns the number of Pull calls.
func (s *OrderStoreStub) Pulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulls
}

// Pushes returns the number of Push calls.
func (s *OrderStoreStub) Pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}

func copyRows(rows []model.RawRow) []model.RawRow {
	out := make([]model.RawRow, len(rows))
	for i, r := range rows {
		out[i] = append(model.RawRow(nil), r...)
	}
	return out
}
