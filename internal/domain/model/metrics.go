package model

// SLAMetrics summarizes SLA compliance over a filtered view.
type SLAMetrics struct {
	Total                 int
	OnTime                int
	Overdue               int
	AvgProcessingMinutes  float64
	ComplianceRatePercent float64
	ByPriority            map[Priority]int
	ByStatus              map[OrderStatus]int
}
