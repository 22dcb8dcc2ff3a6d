package dto

import (
	"math"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// MetricsResponse carries compliance statistics of a view.
type MetricsResponse struct {
	Total                 int            `json:"total"`
	OnTime                int            `json:"onTime"`
	Overdue               int            `json:"overdue"`
	AvgProcessingMinutes  float64        `json:"avgProcessingMinutes"`
	ComplianceRatePercent float64        `json:"complianceRatePercent"`
	ByPriority            map[string]int `json:"byPriority"`
	ByStatus              map[string]int `json:"byStatus"`
}

// NewMetricsResponse maps aggregated metrics.
func NewMetricsResponse(m model.SLAMetrics) MetricsResponse {
	resp := MetricsResponse{
		Total:                 m.Total,
		OnTime:                m.OnTime,
		Overdue:               m.Overdue,
		AvgProcessingMinutes:  m.AvgProcessingMinutes,
		ComplianceRatePercent: m.ComplianceRatePercent,
		ByPriority:            make(map[string]int, len(m.ByPriority)),
		ByStatus:              make(map[string]int, len(m.ByStatus)),
	}
	for p, n := range m.ByPriority {
		resp.ByPriority[string(p)] = n
	}
	for s, n := range m.ByStatus {
		resp.ByStatus[string(s)] = n
	}
	return resp
}

// ViewSpec is the JSON form of a filter and sort specification.
type ViewSpec struct {
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	Platform  string     `json:"platform"`
	Assignee  string     `json:"assignee"`
	DateRange string     `json:"dateRange"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Search    string     `json:"search"`
	SortKey   string     `json:"sortKey"`
	SortDir   string     `json:"sortDir"`
}

// Spec converts the request.
func (v ViewSpec) Spec() model.QuerySpec {
	return model.QuerySpec{
		Status:    v.Status,
		Priority:  v.Priority,
		Platform:  v.Platform,
		Assignee:  v.Assignee,
		DateRange: model.DateRange(v.DateRange),
		From:      v.From,
		To:        v.To,
		Search:    v.Search,
		SortKey:   model.SortKey(v.SortKey),
		SortDir:   model.SortDirection(v.SortDir),
	}
}

// NewViewSpec maps a specification.
func NewViewSpec(s model.QuerySpec) ViewSpec {
	return ViewSpec{
		Status:    s.Status,
		Priority:  s.Priority,
		Platform:  s.Platform,
		Assignee:  s.Assignee,
		DateRange: string(s.DateRange),
		From:      s.From,
		To:        s.To,
		Search:    s.Search,
		SortKey:   string(s.SortKey),
		SortDir:   string(s.SortDir),
	}
}

// SyncErrorResponse is one failed store interaction.
type SyncErrorResponse struct {
	At        time.Time `json:"at"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
}

// SyncStatusResponse reports synchronization with the store.
type SyncStatusResponse struct {
	LastSyncAt *time.Time          `json:"lastSyncAt"`
	Connected  bool                `json:"connected"`
	InFlight   bool                `json:"inFlight"`
	Errors     []SyncErrorResponse `json:"errors"`
}

// NewSyncStatusResponse maps sync status.
func NewSyncStatusResponse(s model.SyncStatus) SyncStatusResponse {
	resp := SyncStatusResponse{
		LastSyncAt: s.LastSyncAt,
		Connected:  s.Connected,
		InFlight:   s.InFlight,
		Errors:     make([]SyncErrorResponse, 0, len(s.Errors)),
	}
	for _, e := range s.Errors {
		resp.Errors = append(resp.Errors, SyncErrorResponse{At: e.At, Operation: string(e.Operation), Message: e.Message})
	}
	return resp
}

// TierResponse describes a priority tier. ThresholdMinutes is null for the
// unbounded tier.
type TierResponse struct {
	Priority         string   `json:"priority"`
	Name             string   `json:"name"`
	ThresholdMinutes *float64 `json:"thresholdMinutes"`
	Actions          []string `json:"actions"`
}

// NewTierResponses maps the tier table.
func NewTierResponses(tiers []model.PriorityTier) []TierResponse {
	out := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		resp := TierResponse{Priority: string(t.Priority), Name: t.Name, Actions: t.Actions}
		if !math.IsInf(t.ThresholdMinutes, 1) {
			threshold := t.ThresholdMinutes
			resp.ThresholdMinutes = &threshold
		}
		out = append(out, resp)
	}
	return out
}

// AlertResponse is an SLA alert.
type AlertResponse struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Severity string    `json:"severity"`
	OrderID  string    `json:"orderId"`
	Minutes  int       `json:"minutes"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raisedAt"`
}

// NewAlertResponse maps an alert.
func NewAlertResponse(a model.Alert) AlertResponse {
	return AlertResponse{
		ID:       a.ID,
		Kind:     string(a.Kind),
		Severity: string(a.Severity),
		OrderID:  a.OrderID,
		Minutes:  a.Minutes,
		Message:  a.Message,
		RaisedAt: a.RaisedAt,
	}
}

// ErrorResponse carries a failure description.
type ErrorResponse struct {
	Error string `json:"error"`
}
