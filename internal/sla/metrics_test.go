package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

func TestAggregateEmptyView(t *testing.T) {
	m := Aggregate(nil)
	assert.Zero(t, m.Total)
	assert.Zero(t, m.ComplianceRatePercent)
	assert.Zero(t, m.AvgProcessingMinutes)
}

func TestAggregateProcessingAverage(t *testing.T) {
	orders := make([]model.Order, 0, 10)
	for i, minutes := range []int{30, 45, 60} {
		created := baseNow.Add(-5 * time.Hour)
		completed := created.Add(time.Duration(minutes) * time.Minute)
		orders = append(orders, model.Order{
			ID:          string(rune('a' + i)),
			Status:      model.OrderStatusCompleted,
			CreatedAt:   created,
			CompletedAt: &completed,
			SLADeadline: baseNow.Add(time.Hour),
		})
	}
	for i := 0; i < 7; i++ {
		orders = append(orders, model.Order{
			ID:          string(rune('k' + i)),
			Status:      model.OrderStatusPending,
			CreatedAt:   baseNow.Add(-time.Hour),
			SLADeadline: baseNow.Add(time.Duration(i-2) * time.Hour),
		})
	}
	// A completed order without completion time does not count towards the average.
	orders[9].Status = model.OrderStatusCompleted

	m := Aggregate(Views(orders, baseNow))
	assert.Equal(t, 10, m.Total)
	assert.InDelta(t, 45, m.AvgProcessingMinutes, 1e-9)
	assert.Equal(t, 3, m.Overdue)
	assert.Equal(t, 7, m.OnTime)
	assert.InDelta(t, 70, m.ComplianceRatePercent, 1e-9)
	assert.Equal(t, 4, m.ByStatus[model.OrderStatusCompleted])
	assert.Equal(t, m.Total, sumCounts(m.ByPriority))
}

func TestAggregateComplianceRounding(t *testing.T) {
	orders := []model.Order{
		{ID: "1", SLADeadline: baseNow.Add(time.Hour)},
		{ID: "2", SLADeadline: baseNow.Add(time.Hour)},
		{ID: "3", SLADeadline: baseNow.Add(-time.Hour)},
	}
	m := Aggregate(Views(orders, baseNow))
	assert.Equal(t, 66.67, m.ComplianceRatePercent)
	assert.GreaterOrEqual(t, m.ComplianceRatePercent, 0.0)
	assert.LessOrEqual(t, m.ComplianceRatePercent, 100.0)
}

func sumCounts(m map[model.Priority]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
