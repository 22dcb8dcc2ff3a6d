package handlers

import (
	"context"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// OrderFacade covers order reads and mutations.
type OrderFacade interface {
	Query(spec model.QuerySpec) ([]model.OrderView, error)
	Order(id string) (model.OrderView, error)
	Update(ctx context.Context, id string, patch model.OrderPatch) (model.OrderView, error)
	BulkUpdate(ctx context.Context, ids []string, patch model.OrderPatch) ([]model.OrderView, error)
	Assign(ctx context.Context, id, staffID string) (model.OrderView, error)
	Complete(ctx context.Context, id string) (model.OrderView, error)
}

// DashboardFacade covers metrics, the active view and synchronization.
type DashboardFacade interface {
	Metrics(spec model.QuerySpec) (model.SLAMetrics, error)
	ActiveMetrics() model.SLAMetrics
	ActiveView() model.QuerySpec
	SetActiveView(spec model.QuerySpec) (model.QuerySpec, error)
	Load(ctx context.Context) error
	SyncStatus() model.SyncStatus
	Tiers() []model.PriorityTier
}

// AlertFacade exposes monitor alerts.
type AlertFacade interface {
	Alerts(limit int) []model.Alert
	SubscribeAlerts() (<-chan model.Alert, func())
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	OrderFacade
	DashboardFacade
	AlertFacade
}
