// Package sla derives priority tiers, filtered views and compliance metrics
// from orders. Everything here is pure: the caller supplies the current time.
package sla

import (
	"math"
	"time"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

const (
	criticalMinutes = 30
	highMinutes     = 60
)

var tiers = []model.PriorityTier{
	{Priority: model.PriorityP1, Name: "Urgent", ThresholdMinutes: 120, Actions: []string{"auto_assign", "notify_supervisor", "expedite_carrier"}},
	{Priority: model.PriorityP2, Name: "High", ThresholdMinutes: 240, Actions: []string{"prioritize_picking", "notify_team"}},
	{Priority: model.PriorityP3, Name: "Normal", ThresholdMinutes: 480, Actions: []string{"standard_queue"}},
	{Priority: model.PriorityP4, Name: "Low", ThresholdMinutes: model.Unbounded, Actions: []string{"batch_processing"}},
}

// Tiers returns the tier table ordered from most to least urgent.
func Tiers() []model.PriorityTier {
	out := make([]model.PriorityTier, len(tiers))
	for i, t := range tiers {
		t.Actions = append([]string(nil), t.Actions...)
		out[i] = t
	}
	return out
}

// Tier returns the definition of p.
func Tier(p model.Priority) (model.PriorityTier, bool) {
	for _, t := range tiers {
		if t.Priority == p {
			return t, true
		}
	}
	return model.PriorityTier{}, false
}

// Classify maps a deadline onto its priority tier at instant now.
// It must be called on every read; results go stale as time passes.
func Classify(deadline, now time.Time) model.Classification {
	raw := deadline.Sub(now).Minutes()
	remaining := math.Max(0, raw)

	c := model.Classification{
		RemainingMinutes: remaining,
		IsOverdue:        raw <= 0,
	}
	if c.IsOverdue {
		c.OverdueMinutes = -raw
	}

	c.Priority = model.PriorityP4
	for _, t := range tiers {
		if t.ThresholdMinutes >= remaining {
			c.Priority = t.Priority
			break
		}
	}

	switch {
	case c.Priority == model.PriorityP4:
		c.Urgency = model.UrgencyLow
	case remaining <= criticalMinutes:
		c.Urgency = model.UrgencyCritical
	case remaining <= highMinutes:
		c.Urgency = model.UrgencyHigh
	default:
		c.Urgency = model.UrgencyNormal
	}
	return c
}

// View classifies order at now.
func View(order model.Order, now time.Time) model.OrderView {
	return model.OrderView{Order: order, Classification: Classify(order.SLADeadline, now)}
}

// Views classifies every order at the same instant.
func Views(orders []model.Order, now time.Time) []model.OrderView {
	out := make([]model.OrderView, len(orders))
	for i, o := range orders {
		out[i] = View(o, now)
	}
	return out
}
