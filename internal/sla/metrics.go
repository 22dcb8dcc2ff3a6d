package sla

import (
	"math"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// Aggregate computes compliance statistics over an already filtered view.
func Aggregate(orders []model.OrderView) model.SLAMetrics {
	m := model.SLAMetrics{
		Total:      len(orders),
		ByPriority: make(map[model.Priority]int, len(tiers)),
		ByStatus:   make(map[model.OrderStatus]int),
	}

	var processed float64
	var completed int
	for _, o := range orders {
		if o.IsOverdue {
			m.Overdue++
		} else {
			m.OnTime++
		}
		m.ByPriority[o.Priority]++
		m.ByStatus[o.Status]++

		if o.Status == model.OrderStatusCompleted && o.CompletedAt != nil {
			processed += o.CompletedAt.Sub(o.CreatedAt).Minutes()
			completed++
		}
	}

	if completed > 0 {
		m.AvgProcessingMinutes = round2(processed / float64(completed))
	}
	if m.Total > 0 {
		m.ComplianceRatePercent = round2(float64(m.OnTime) / float64(m.Total) * 100)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
