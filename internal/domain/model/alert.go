package model

import "time"

// AlertKind distinguishes the monitor windows.
type AlertKind string

const (
	AlertKindBreachSoon AlertKind = "sla_breach_soon"
	AlertKindViolated   AlertKind = "sla_violated"
)

// AlertSeverity mirrors notification levels of the dashboard.
type AlertSeverity string

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityError   AlertSeverity = "error"
)

// Alert is emitted by the SLA monitor when an order crosses a watched window.
type Alert struct {
	ID       string
	Kind     AlertKind
	Severity AlertSeverity
	OrderID  string
	Minutes  int
	Message  string
	RaisedAt time.Time
}
