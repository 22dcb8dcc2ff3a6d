package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/dto"
)

const defaultAlertLimit = 50

// AlertHandler exposes SLA monitor alerts.
type AlertHandler struct {
	facade AlertFacade
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(facade AlertFacade) *AlertHandler {
	return &AlertHandler{facade: facade}
}

// List handles GET /api/alerts.
func (h *AlertHandler) List(c *gin.Context) {
	limit := defaultAlertLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	alerts := h.facade.Alerts(limit)
	resp := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, dto.NewAlertResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

// Stream handles GET /api/alerts/stream as server-sent events, one event per
// alert named after its kind.
func (h *AlertHandler) Stream(c *gin.Context) {
	alerts, unsubscribe := h.facade.SubscribeAlerts()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case alert, ok := <-alerts:
			if !ok {
				return false
			}
			c.SSEvent(string(alert.Kind), dto.NewAlertResponse(alert))
			return true
		}
	})
}
