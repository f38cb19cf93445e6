package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carewatch/carewatch/module/core/domain"
)

type alertService interface {
	ListByUser(ctx context.Context, userID string, unresolvedOnly bool, limit int) ([]domain.Alert, error)
	Resolve(ctx context.Context, alertID string) (*domain.Alert, error)
}

type AlertHandler struct {
	alerts alertService
}

func NewAlertHandler(alerts alertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) Register(r *gin.RouterGroup) {
	r.GET("/alerts", h.ListAlerts)
	r.POST("/alerts/:alert_id/resolve", h.ResolveAlert)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	unresolvedOnly := c.Query("unresolved") == "true"

	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	alerts, err := h.alerts.ListByUser(c.Request.Context(), userID, unresolvedOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	alert, err := h.alerts.Resolve(c.Request.Context(), alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve alert"})
		return
	}

	c.JSON(http.StatusOK, alert)
}
