package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/dto"
)

// DashboardHandler serves metrics, the active view and sync endpoints.
type DashboardHandler struct {
	facade DashboardFacade
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(facade DashboardFacade) *DashboardHandler {
	return &DashboardHandler{facade: facade}
}

// Metrics handles GET /api/metrics. Without query parameters the active view is aggregated.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	if !hasQueryFilter(c) {
		c.JSON(http.StatusOK, dto.NewMetricsResponse(h.facade.ActiveMetrics()))
		return
	}
	spec, err := querySpec(c)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics, err := h.facade.Metrics(spec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMetricsResponse(metrics))
}

// View handles GET /api/view.
func (h *DashboardHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewViewSpec(h.facade.ActiveView()))
}

// SetView handles PUT /api/view.
func (h *DashboardHandler) SetView(c *gin.Context) {
	var req dto.ViewSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domainErrors.ErrInvalidQuery, err))
		return
	}
	spec, err := h.facade.SetActiveView(req.Spec())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewViewSpec(spec))
}

// Sync handles GET /api/sync.
func (h *DashboardHandler) Sync(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.facade.SyncStatus()))
}

// Reload handles POST /api/sync.
func (h *DashboardHandler) Reload(c *gin.Context) {
	if err := h.facade.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.facade.SyncStatus()))
}

// Priorities handles GET /api/priorities.
func (h *DashboardHandler) Priorities(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewTierResponses(h.facade.Tiers()))
}
