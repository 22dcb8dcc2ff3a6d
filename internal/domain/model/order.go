package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusPicking    OrderStatus = "picking"
	OrderStatusPacking    OrderStatus = "packing"
	OrderStatusCompleted  OrderStatus = "completed"
)

var orderStatusAliases = map[string]OrderStatus{
	"pending":     OrderStatusPending,
	"unassigned":  OrderStatusPending,
	"assigned":    OrderStatusAssigned,
	"in_progress": OrderStatusInProgress,
	"in-progress": OrderStatusInProgress,
	"inprogress":  OrderStatusInProgress,
	"picking":     OrderStatusPicking,
	"packing":     OrderStatusPacking,
	"completed":   OrderStatusCompleted,
	"done":        OrderStatusCompleted,
}

// ParseOrderStatus normalizes a status label. The second result is false for unknown labels.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status, ok := orderStatusAliases[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

// Valid reports whether status is one of the known lifecycle values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInProgress,
		OrderStatusPicking, OrderStatusPacking, OrderStatusCompleted:
		return true
	}
	return false
}

// LineItem is a product line owned by an order.
type LineItem struct {
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

// Order is a warehouse order tracked against its SLA deadline.
type Order struct {
	ID          string
	Platform    string
	CustomerID  string
	Status      OrderStatus
	CreatedAt   time.Time
	SLADeadline time.Time
	AssignedTo  string
	TotalValue  decimal.Decimal
	Notes       string
	CarrierName string
	UpdatedAt   time.Time
	UpdatedBy   string
	CompletedAt *time.Time
	Items       []LineItem
}

// Clone returns a deep copy so snapshots never share mutable state.
func (o Order) Clone() Order {
	out := o
	if o.CompletedAt != nil {
		completed := *o.CompletedAt
		out.CompletedAt = &completed
	}
	if o.Items != nil {
		out.Items = append([]LineItem(nil), o.Items...)
	}
	return out
}

// OrderPatch lists the mutable attributes of an order. Nil fields are left untouched.
type OrderPatch struct {
	Platform    *string
	CustomerID  *string
	Status      *OrderStatus
	SLADeadline *time.Time
	AssignedTo  *string
	TotalValue  *decimal.Decimal
	Notes       *string
	CarrierName *string
	CompletedAt *time.Time
	Items       []LineItem
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Platform == nil && p.CustomerID == nil && p.Status == nil &&
		p.SLADeadline == nil && p.AssignedTo == nil && p.TotalValue == nil &&
		p.Notes == nil && p.CarrierName == nil && p.CompletedAt == nil && p.Items == nil
}

// Apply writes the patch onto order.
func (p OrderPatch) Apply(order *Order) {
	if p.Platform != nil {
		order.Platform = *p.Platform
	}
	if p.CustomerID != nil {
		order.CustomerID = *p.CustomerID
	}
	if p.Status != nil {
		order.Status = *p.Status
	}
	if p.SLADeadline != nil {
		order.SLADeadline = *p.SLADeadline
	}
	if p.AssignedTo != nil {
		order.AssignedTo = *p.AssignedTo
	}
	if p.TotalValue != nil {
		order.TotalValue = *p.TotalValue
	}
	if p.Notes != nil {
		order.Notes = *p.Notes
	}
	if p.CarrierName != nil {
		order.CarrierName = *p.CarrierName
	}
	if p.CompletedAt != nil {
		completed := *p.CompletedAt
		order.CompletedAt = &completed
	}
	if p.Items != nil {
		order.Items = append([]LineItem(nil), p.Items...)
	}
}

// OrderView is an order together with the SLA fields derived at read time.
type OrderView struct {
	Order
	Classification
}
