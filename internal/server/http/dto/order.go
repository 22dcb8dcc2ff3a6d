package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
)

// LineItem describes a product line of an order.
type LineItem struct {
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

// OrderResponse is an order with its SLA fields derived at request time.
type OrderResponse struct {
	ID               string          `json:"id"`
	Platform         string          `json:"platform"`
	CustomerID       string          `json:"customerId"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	SLADeadline      time.Time       `json:"slaDeadline"`
	AssignedTo       string          `json:"assignedTo,omitempty"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	Notes            string          `json:"notes,omitempty"`
	CarrierName      string          `json:"carrierName,omitempty"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	UpdatedBy        string          `json:"updatedBy,omitempty"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
	Items            []LineItem      `json:"items,omitempty"`
	Priority         string          `json:"priority"`
	RemainingMinutes float64         `json:"remainingMinutes"`
	OverdueMinutes   float64         `json:"overdueMinutes"`
	IsOverdue        bool            `json:"isOverdue"`
	Urgency          string          `json:"urgency"`
}

// NewOrderResponse maps a classified order.
func NewOrderResponse(v model.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:               v.ID,
		Platform:         v.Platform,
		CustomerID:       v.CustomerID,
		Status:           string(v.Status),
		CreatedAt:        v.CreatedAt,
		SLADeadline:      v.SLADeadline,
		AssignedTo:       v.AssignedTo,
		TotalValue:       v.TotalValue,
		Notes:            v.Notes,
		CarrierName:      v.CarrierName,
		UpdatedAt:        v.UpdatedAt,
		UpdatedBy:        v.UpdatedBy,
		CompletedAt:      v.CompletedAt,
		Priority:         string(v.Priority),
		RemainingMinutes: v.RemainingMinutes,
		OverdueMinutes:   v.OverdueMinutes,
		IsOverdue:        v.IsOverdue,
		Urgency:          string(v.Urgency),
	}
	for _, item := range v.Items {
		resp.Items = append(resp.Items, LineItem(item))
	}
	return resp
}

// NewOrderResponses maps a list of classified orders.
func NewOrderResponses(views []model.OrderView) []OrderResponse {
	out := make([]OrderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewOrderResponse(v))
	}
	return out
}

// OrderPatchRequest lists the fields to change. Absent fields are untouched;
// an empty items array clears the line items.
type OrderPatchRequest struct {
	Platform    *string          `json:"platform"`
	CustomerID  *string          `json:"customerId"`
	Status      *string          `json:"status"`
	SLADeadline *time.Time       `json:"slaDeadline"`
	AssignedTo  *string          `json:"assignedTo"`
	TotalValue  *decimal.Decimal `json:"totalValue"`
	Notes       *string          `json:"notes"`
	CarrierName *string          `json:"carrierName"`
	CompletedAt *time.Time       `json:"completedAt"`
	Items       []LineItem       `json:"items"`
}

// Patch converts the request. Unknown status labels are passed through for
// the repository to reject.
func (r OrderPatchRequest) Patch() model.OrderPatch {
	patch := model.OrderPatch{
		Platform:    r.Platform,
		CustomerID:  r.CustomerID,
		SLADeadline: r.SLADeadline,
		AssignedTo:  r.AssignedTo,
		TotalValue:  r.TotalValue,
		Notes:       r.Notes,
		CarrierName: r.CarrierName,
		CompletedAt: r.CompletedAt,
	}
	if r.Status != nil {
		status, ok := model.ParseOrderStatus(*r.Status)
		if !ok {
			status = model.OrderStatus(*r.Status)
		}
		patch.Status = &status
	}
	if r.Items != nil {
		patch.Items = make([]model.LineItem, 0, len(r.Items))
		for _, item := range r.Items {
			patch.Items = append(patch.Items, model.LineItem(item))
		}
	}
	return patch
}

// BulkUpdateRequest applies one patch to several orders.
type BulkUpdateRequest struct {
	IDs   []string          `json:"ids" binding:"required,min=1"`
	Patch OrderPatchRequest `json:"patch"`
}

// AssignRequest hands an order to a staff member.
type AssignRequest struct {
	StaffID string `json:"staffId" binding:"required"`
}
