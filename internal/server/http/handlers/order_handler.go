package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/dto"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	spec, err := querySpec(c)
	if err != nil {
		writeError(c, err)
		return
	}
	views, err := h.facade.Query(spec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(views))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.facade.Order(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(view))
}

// Patch handles PATCH /api/orders/:id.
func (h *OrderHandler) Patch(c *gin.Context) {
	var req dto.OrderPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPatch, err))
		return
	}
	view, err := h.facade.Update(c.Request.Context(), c.Param("id"), req.Patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(view))
}

// Bulk handles POST /api/orders/bulk.
func (h *OrderHandler) Bulk(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPatch, err))
		return
	}
	views, err := h.facade.BulkUpdate(c.Request.Context(), req.IDs, req.Patch.Patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(views))
}

// Assign handles POST /api/orders/:id/assign.
func (h *OrderHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPatch, err))
		return
	}
	view, err := h.facade.Assign(c.Request.Context(), c.Param("id"), req.StaffID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(view))
}

// Complete handles POST /api/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	view, err := h.facade.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(view))
}
