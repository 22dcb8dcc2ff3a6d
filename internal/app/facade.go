package app

import (
	"context"
	"sync"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/notify"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/sla"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/usecase"
)

// DashboardFacade is the single entry point used by HTTP handlers and workers.
// It owns the active view: the filter and sort the dashboard currently shows,
// which the SLA monitor scans and default metrics are computed over.
type DashboardFacade struct {
	orders *usecase.OrderUseCase
	alerts *notify.Hub

	mu   sync.RWMutex
	view model.QuerySpec
}

func NewDashboardFacade(orders *usecase.OrderUseCase, alerts *notify.Hub) *DashboardFacade {
	return &DashboardFacade{orders: orders, alerts: alerts, view: model.DefaultQuerySpec()}
}

func (f *DashboardFacade) Load(ctx context.Context) error {
	return f.orders.Load(ctx)
}

func (f *DashboardFacade) Update(ctx context.Context, id string, patch model.OrderPatch) (model.OrderView, error) {
	return f.orders.Update(ctx, id, patch)
}

func (f *DashboardFacade) BulkUpdate(ctx context.Context, ids []string, patch model.OrderPatch) ([]model.OrderView, error) {
	return f.orders.BulkUpdate(ctx, ids, patch)
}

func (f *DashboardFacade) Assign(ctx context.Context, id, staffID string) (model.OrderView, error) {
	return f.orders.Assign(ctx, id, staffID)
}

func (f *DashboardFacade) Complete(ctx context.Context, id string) (model.OrderView, error) {
	return f.orders.Complete(ctx, id)
}

func (f *DashboardFacade) Order(id string) (model.OrderView, error) {
	return f.orders.Order(id)
}

// Query returns the orders matching spec, classified and sorted at one instant.
func (f *DashboardFacade) Query(spec model.QuerySpec) ([]model.OrderView, error) {
	spec, err := sla.Normalize(spec)
	if err != nil {
		return nil, err
	}
	return f.query(spec), nil
}

func (f *DashboardFacade) query(spec model.QuerySpec) []model.OrderView {
	return f.queryAt(spec, f.orders.Now())
}

func (f *DashboardFacade) queryAt(spec model.QuerySpec, now time.Time) []model.OrderView {
	return sla.Apply(sla.Views(f.orders.Orders(), now), spec, now)
}

// Metrics aggregates the orders matching spec.
func (f *DashboardFacade) Metrics(spec model.QuerySpec) (model.SLAMetrics, error) {
	views, err := f.Query(spec)
	if err != nil {
		return model.SLAMetrics{}, err
	}
	return sla.Aggregate(views), nil
}

// ActiveMetrics aggregates the active view.
func (f *DashboardFacade) ActiveMetrics() model.SLAMetrics {
	return sla.Aggregate(f.ActiveOrders())
}

// ActiveOrders evaluates the active view against the current order set.
func (f *DashboardFacade) ActiveOrders() []model.OrderView {
	return f.query(f.ActiveView())
}

// ActiveOrdersAt is ActiveOrders together with the repository instant the
// orders were classified at.
func (f *DashboardFacade) ActiveOrdersAt() ([]model.OrderView, time.Time) {
	now := f.orders.Now()
	return f.queryAt(f.ActiveView(), now), now
}

func (f *DashboardFacade) ActiveView() model.QuerySpec {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.view
}

// SetActiveView replaces the active view and returns it normalized.
func (f *DashboardFacade) SetActiveView(spec model.QuerySpec) (model.QuerySpec, error) {
	spec, err := sla.Normalize(spec)
	if err != nil {
		return model.QuerySpec{}, err
	}
	f.mu.Lock()
	f.view = spec
	f.mu.Unlock()
	return spec, nil
}

func (f *DashboardFacade) SyncStatus() model.SyncStatus {
	return f.orders.SyncStatus()
}

func (f *DashboardFacade) Tiers() []model.PriorityTier {
	return sla.Tiers()
}

// Alerts returns up to limit recent alerts, newest first.
func (f *DashboardFacade) Alerts(limit int) []model.Alert {
	return f.alerts.Recent(limit)
}

func (f *DashboardFacade) SubscribeAlerts() (<-chan model.Alert, func()) {
	return f.alerts.Subscribe()
}
