package sla

import (
	"fmt"
	"sort"
	"strings"
	"time"

	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// Normalize fills defaults into spec and validates enumerated fields.
func Normalize(spec model.QuerySpec) (model.QuerySpec, error) {
	def := model.DefaultQuerySpec()
	spec.Status = orAll(spec.Status)
	spec.Priority = orAll(spec.Priority)
	spec.Platform = orAll(spec.Platform)
	spec.Assignee = orAll(spec.Assignee)
	spec.Search = strings.TrimSpace(spec.Search)
	if spec.DateRange == "" {
		spec.DateRange = def.DateRange
	}
	if spec.SortKey == "" {
		spec.SortKey = def.SortKey
	}
	if spec.SortDir == "" {
		spec.SortDir = def.SortDir
	}

	if spec.Status != model.FilterAll {
		status, ok := model.ParseOrderStatus(spec.Status)
		if !ok {
			return spec, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidQuery, spec.Status)
		}
		spec.Status = string(status)
	}
	if spec.Priority != model.FilterAll && !model.Priority(spec.Priority).Valid() {
		return spec, fmt.Errorf("%w: unknown priority %q", domainErrors.ErrInvalidQuery, spec.Priority)
	}
	switch spec.DateRange {
	case model.DateRangeAll, model.DateRangeToday, model.DateRangeYesterday, model.DateRangeWeek, model.DateRangeMonth:
	case model.DateRangeCustom:
		if spec.From == nil || spec.To == nil {
			return spec, fmt.Errorf("%w: custom range requires from and to", domainErrors.ErrInvalidQuery)
		}
		if spec.To.Before(*spec.From) {
			return spec, fmt.Errorf("%w: range ends before it starts", domainErrors.ErrInvalidQuery)
		}
	default:
		return spec, fmt.Errorf("%w: unknown date range %q", domainErrors.ErrInvalidQuery, spec.DateRange)
	}
	if _, ok := comparators[spec.SortKey]; !ok {
		return spec, fmt.Errorf("%w: unknown sort key %q", domainErrors.ErrInvalidQuery, spec.SortKey)
	}
	if spec.SortDir != model.SortAsc && spec.SortDir != model.SortDesc {
		return spec, fmt.Errorf("%w: unknown sort direction %q", domainErrors.ErrInvalidQuery, spec.SortDir)
	}
	return spec, nil
}

func orAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return model.FilterAll
	}
	return v
}

// Apply runs the search, field filter, date range and sort stages over orders.
// The input slice is not modified. Unknown sort keys fall back to the default.
func Apply(orders []model.OrderView, spec model.QuerySpec, now time.Time) []model.OrderView {
	out := make([]model.OrderView, 0, len(orders))
	term := strings.ToLower(strings.TrimSpace(spec.Search))
	from, to, ranged := Window(spec, now)

	for _, o := range orders {
		if term != "" && !matchesSearch(o.Order, term) {
			continue
		}
		if !matchesField(spec.Status, string(o.Status)) ||
			!matchesField(spec.Priority, string(o.Priority)) ||
			!matchesField(spec.Platform, o.Platform) ||
			!matchesField(spec.Assignee, o.AssignedTo) {
			continue
		}
		if ranged && (o.CreatedAt.Before(from) || o.CreatedAt.After(to)) {
			continue
		}
		out = append(out, o)
	}

	cmp, ok := comparators[spec.SortKey]
	if !ok {
		cmp = comparators[model.SortBySLADeadline]
	}
	desc := spec.SortDir == model.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func matchesField(filter, value string) bool {
	if filter == "" || filter == model.FilterAll {
		return true
	}
	return filter == value
}

func matchesSearch(o model.Order, term string) bool {
	if containsFold(o.ID, term) || containsFold(o.CustomerID, term) || containsFold(o.Notes, term) {
		return true
	}
	for _, item := range o.Items {
		if containsFold(item.ProductName, term) || containsFold(item.SKU, term) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

// Window resolves the creation-time bounds of spec relative to now. Both bounds
// are inclusive. The last result is false when no date filtering applies.
func Window(spec model.QuerySpec, now time.Time) (time.Time, time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch spec.DateRange {
	case model.DateRangeToday:
		return midnight, midnight.AddDate(0, 0, 1).Add(-time.Nanosecond), true
	case model.DateRangeYesterday:
		return midnight.AddDate(0, 0, -1), midnight.Add(-time.Nanosecond), true
	case model.DateRangeWeek:
		return now.AddDate(0, 0, -7), now, true
	case model.DateRangeMonth:
		return now.AddDate(0, 0, -30), now, true
	case model.DateRangeCustom:
		if spec.From == nil || spec.To == nil {
			return time.Time{}, time.Time{}, false
		}
		return *spec.From, *spec.To, true
	}
	return time.Time{}, time.Time{}, false
}

type comparator func(a, b model.OrderView) int

var comparators = map[model.SortKey]comparator{
	model.SortByCreatedAt:   func(a, b model.OrderView) int { return a.CreatedAt.Compare(b.CreatedAt) },
	model.SortBySLADeadline: func(a, b model.OrderView) int { return a.SLADeadline.Compare(b.SLADeadline) },
	model.SortByUpdatedAt:   func(a, b model.OrderView) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	model.SortByCompletedAt: func(a, b model.OrderView) int { return compareOptionalTime(a.CompletedAt, b.CompletedAt) },
	model.SortByRemainingMinutes: func(a, b model.OrderView) int {
		return compareFloat(a.RemainingMinutes, b.RemainingMinutes)
	},
	model.SortByPriority:    func(a, b model.OrderView) int { return a.Priority.Rank() - b.Priority.Rank() },
	model.SortByTotalValue:  func(a, b model.OrderView) int { return a.TotalValue.Cmp(b.TotalValue) },
	model.SortByID:          func(a, b model.OrderView) int { return compareFold(a.ID, b.ID) },
	model.SortByCustomerID:  func(a, b model.OrderView) int { return compareFold(a.CustomerID, b.CustomerID) },
	model.SortByPlatform:    func(a, b model.OrderView) int { return compareFold(a.Platform, b.Platform) },
	model.SortByStatus:      func(a, b model.OrderView) int { return compareFold(string(a.Status), string(b.Status)) },
	model.SortByAssignedTo:  func(a, b model.OrderView) int { return compareFold(a.AssignedTo, b.AssignedTo) },
	model.SortByCarrierName: func(a, b model.OrderView) int { return compareFold(a.CarrierName, b.CarrierName) },
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Orders without a completion time sort before completed ones.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
