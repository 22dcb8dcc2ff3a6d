package model

// RawRow is one positional record of the external tabular store.
type RawRow []string

// Column positions of RawRow. The first thirteen are the canonical layout;
// the trailing ones are optional and default when absent.
const (
	ColID = iota
	ColPlatform
	ColCustomerID
	ColPriority
	ColStatus
	ColCreatedAt
	ColSLADeadline
	ColAssignedTo
	ColTotalValue
	ColNotes
	ColCarrierName
	ColUpdatedAt
	ColUpdatedBy
	ColCompletedAt
	ColItems

	CanonicalColumns = ColUpdatedBy + 1
	RowColumns       = ColItems + 1
)

// ColumnNames holds the header labels in column order.
var ColumnNames = [RowColumns]string{
	"id", "platform", "customerId", "priority", "status", "createdAt",
	"slaDeadline", "assignedTo", "totalValue", "notes", "carrierName",
	"updatedAt", "updatedBy", "completedAt", "items",
}

// Cell returns the value at column i or an empty string when the row is short.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
