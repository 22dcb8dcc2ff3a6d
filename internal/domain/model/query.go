package model

import "time"

// FilterAll disables a field filter.
const FilterAll = "all"

// DateRange selects a creation-time window.
type DateRange string

const (
	DateRangeAll       DateRange = "all"
	DateRangeToday     DateRange = "today"
	DateRangeYesterday DateRange = "yesterday"
	DateRangeWeek      DateRange = "week"
	DateRangeMonth     DateRange = "month"
	DateRangeCustom    DateRange = "custom"
)

// SortKey names the attribute a view is ordered by.
type SortKey string

const (
	SortByCreatedAt        SortKey = "createdAt"
	SortBySLADeadline      SortKey = "slaDeadline"
	SortByUpdatedAt        SortKey = "updatedAt"
	SortByCompletedAt      SortKey = "completedAt"
	SortByRemainingMinutes SortKey = "remainingMinutes"
	SortByPriority         SortKey = "priority"
	SortByTotalValue       SortKey = "totalValue"
	SortByID               SortKey = "id"
	SortByCustomerID       SortKey = "customerId"
	SortByPlatform         SortKey = "platform"
	SortByStatus           SortKey = "status"
	SortByAssignedTo       SortKey = "assignedTo"
	SortByCarrierName      SortKey = "carrierName"
)

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// QuerySpec is the filter/sort/search specification of a view. It is a value:
// a new spec replaces the old one, results computed for the old one are never mutated.
type QuerySpec struct {
	Status    string
	Priority  string
	Platform  string
	Assignee  string
	DateRange DateRange
	From      *time.Time
	To        *time.Time
	Search    string
	SortKey   SortKey
	SortDir   SortDirection
}

// DefaultQuerySpec returns the spec used when nothing is selected.
func DefaultQuerySpec() QuerySpec {
	return QuerySpec{
		Status:    FilterAll,
		Priority:  FilterAll,
		Platform:  FilterAll,
		Assignee:  FilterAll,
		DateRange: DateRangeAll,
		SortKey:   SortBySLADeadline,
		SortDir:   SortAsc,
	}
}
