package model

import "math"

// Priority is a tier label, P1 being the most urgent.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// Rank maps priorities onto integers where larger means more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 4
	case PriorityP2:
		return 3
	case PriorityP3:
		return 2
	case PriorityP4:
		return 1
	}
	return 0
}

// Valid reports whether p is a known tier.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Unbounded marks the threshold of the fallback tier.
var Unbounded = math.Inf(1)

// PriorityTier describes one urgency band. Actions are informational only.
type PriorityTier struct {
	Priority         Priority
	Name             string
	ThresholdMinutes float64
	Actions          []string
}

// Urgency is the coarse urgency descriptor shown next to the tier.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyNormal   Urgency = "normal"
	UrgencyLow      Urgency = "low"
)

// Classification holds the fields derived from deadline and wall-clock time.
type Classification struct {
	Priority         Priority
	RemainingMinutes float64
	OverdueMinutes   float64
	IsOverdue        bool
	Urgency          Urgency
}
