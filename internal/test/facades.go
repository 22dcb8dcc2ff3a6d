package test

import (
	"context"
	"sync"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// FacadeStub provides controllable behaviour for every HTTP endpoint.
type FacadeStub struct {
	QueryFn      func(model.QuerySpec) ([]model.OrderView, error)
	OrderFn      func(string) (model.OrderView, error)
	UpdateFn     func(context.Context, string, model.OrderPatch) (model.OrderView, error)
	BulkFn       func(context.Context, []string, model.OrderPatch) ([]model.OrderView, error)
	AssignFn     func(context.Context, string, string) (model.OrderView, error)
	CompleteFn   func(context.Context, string) (model.OrderView, error)
	MetricsFn    func(model.QuerySpec) (model.SLAMetrics, error)
	SetViewFn    func(model.QuerySpec) (model.QuerySpec, error)
	LoadFn       func(context.Context) error
	Active       model.SLAMetrics
	View         model.QuerySpec
	Status       model.SyncStatus
	TierList     []model.PriorityTier
	AlertList    []model.Alert
	AlertStream  chan model.Alert
	mu           sync.Mutex
	alertLimits  []int
	unsubscribed int
}

// Query delegates to QueryFn or returns nothing.
func (s *FacadeStub) Query(spec model.QuerySpec) ([]model.OrderView, error) {
	if s.QueryFn != nil {
		return s.QueryFn(spec)
	}
	return nil, nil
}

// Order delegates to OrderFn or echoes the id.
func (s *FacadeStub) Order(id string) (model.OrderView, error) {
	if s.OrderFn != nil {
		return s.OrderFn(id)
	}
	return model.OrderView{Order: model.Order{ID: id}}, nil
}

// Update delegates to UpdateFn or echoes the id.
func (s *FacadeStub) Update(ctx context.Context, id string, patch model.OrderPatch) (model.OrderView, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return model.OrderView{Order: model.Order{ID: id}}, nil
}

// BulkUpdate delegates to BulkFn or returns one view per id.
func (s *FacadeStub) BulkUpdate(ctx context.Context, ids []string, patch model.OrderPatch) ([]model.OrderView, error) {
	if s.BulkFn != nil {
		return s.BulkFn(ctx, ids, patch)
	}
	views := make([]model.OrderView, 0, len(ids))
	for _, id := range ids {
		views = append(views, model.OrderView{Order: model.Order{ID: id}})
	}
	return views, nil
}

// Assign delegates to AssignFn or returns an order assigned to staffID.
func (s *FacadeStub) Assign(ctx context.Context, id, staffID string) (model.OrderView, error) {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, id, staffID)
	}
	return model.OrderView{Order: model.Order{ID: id, AssignedTo: staffID}}, nil
}

// Complete delegates to CompleteFn or returns a completed order.
func (s *FacadeStub) Complete(ctx context.Context, id string) (model.OrderView, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, id)
	}
	return model.OrderView{Order: model.Order{ID: id, Status: model.OrderStatusCompleted}}, nil
}

// Metrics delegates to MetricsFn or returns zero metrics.
func (s *FacadeStub) Metrics(spec model.QuerySpec) (model.SLAMetrics, error) {
	if s.MetricsFn != nil {
		return s.MetricsFn(spec)
	}
	return model.SLAMetrics{}, nil
}

// ActiveMetrics returns Active.
func (s *FacadeStub) ActiveMetrics() model.SLAMetrics { return s.Active }

// ActiveView returns View.
func (s *FacadeStub) ActiveView() model.QuerySpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.View
}

// SetActiveView delegates to SetViewFn or stores spec unchanged.
func (s *FacadeStub) SetActiveView(spec model.QuerySpec) (model.QuerySpec, error) {
	if s.SetViewFn != nil {
		return s.SetViewFn(spec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.View = spec
	return spec, nil
}

// Load delegates to LoadFn.
func (s *FacadeStub) Load(ctx context.Context) error {
	if s.LoadFn != nil {
		return s.LoadFn(ctx)
	}
	return nil
}

// SyncStatus returns Status.
func (s *FacadeStub) SyncStatus() model.SyncStatus { return s.Status }

// Tiers returns TierList.
func (s *FacadeStub) Tiers() []model.PriorityTier { return s.TierList }

// Alerts records limit and returns at most limit entries of AlertList.
func (s *FacadeStub) Alerts(limit int) []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertLimits = append(s.alertLimits, limit)
	if limit < len(s.AlertList) {
		return s.AlertList[:limit]
	}
	return s.AlertList
}

// SubscribeAlerts hands out AlertStream, or a closed channel when it is nil.
func (s *FacadeStub) SubscribeAlerts() (<-chan model.Alert, func()) {
	ch := s.AlertStream
	if ch == nil {
		ch = make(chan model.Alert)
		close(ch)
	}
	return ch, func() {
		s.mu.Lock()
		s.unsubscribed++
		s.mu.Unlock()
	}
}

// AlertLimits returns the limits passed to Alerts.
func (s *FacadeStub) AlertLimits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.alertLimits...)
}

// Unsubscribed reports how many subscriptions were released.
func (s *FacadeStub) Unsubscribed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribed
}
