package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/notify"
)

// Alert windows in minutes. Lower bounds of the breach window are exclusive.
const (
	breachSoonFrom = 10
	breachSoonTo   = 15
	violatedFrom   = 1
	violatedTo     = 5
)

// ViewSource exposes the currently filtered orders together with the instant
// they were classified at.
type ViewSource interface {
	ActiveOrdersAt() ([]model.OrderView, time.Time)
}

// Monitor scans the active view on a fixed interval and raises alerts for
// orders inside the breach-soon or just-violated windows.
//
// The scan keeps no record of earlier alerts: an order inside a window is
// reported on every scan that lands there, and an interval wider than a
// window can skip it entirely.
type Monitor struct {
	periodic
	source   ViewSource
	notifier notify.Notifier
	logger   *slog.Logger
	newID    func() string
}

// NewMonitor constructs the SLA monitor.
func NewMonitor(source ViewSource, notifier notify.Notifier, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	m := &Monitor{
		source:   source,
		notifier: notifier,
		logger:   logger,
		newID:    uuid.NewString,
	}
	m.periodic = periodic{interval: interval, fn: func(ctx context.Context) { m.Scan(ctx) }}
	return m
}

// Scan evaluates the active view once and delivers the resulting alerts.
// Alerts are stamped with the instant the views were classified at.
func (m *Monitor) Scan(ctx context.Context) []model.Alert {
	views, raisedAt := m.source.ActiveOrdersAt()
	var alerts []model.Alert
	for _, view := range views {
		alert, ok := Evaluate(view)
		if !ok {
			continue
		}
		alert.ID = m.newID()
		alert.RaisedAt = raisedAt
		if err := m.notifier.Notify(ctx, alert); err != nil {
			m.logger.Error("alert delivery failed", slog.String("order", alert.OrderID), slog.String("error", err.Error()))
		}
		alerts = append(alerts, alert)
	}
	if len(alerts) > 0 {
		m.logger.Info("sla scan raised alerts", slog.Int("alerts", len(alerts)))
	}
	return alerts
}

// Evaluate returns the alert view warrants, if any. ID and RaisedAt are left empty.
func Evaluate(view model.OrderView) (model.Alert, bool) {
	switch {
	case !view.IsOverdue && view.Priority == model.PriorityP1 &&
		view.RemainingMinutes > breachSoonFrom && view.RemainingMinutes <= breachSoonTo:
		minutes := int(math.Round(view.RemainingMinutes))
		return model.Alert{
			Kind:     model.AlertKindBreachSoon,
			Severity: model.SeverityWarning,
			OrderID:  view.ID,
			Minutes:  minutes,
			Message:  fmt.Sprintf("Order %s will breach SLA in %d minutes", view.ID, minutes),
		}, true
	case view.IsOverdue && view.OverdueMinutes >= violatedFrom && view.OverdueMinutes <= violatedTo:
		minutes := int(math.Round(view.OverdueMinutes))
		return model.Alert{
			Kind:     model.AlertKindViolated,
			Severity: model.SeverityError,
			OrderID:  view.ID,
			Minutes:  minutes,
			Message:  fmt.Sprintf("Order %s violated SLA by %d minutes", view.ID, minutes),
		}, true
	}
	return model.Alert{}, false
}
