package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/service"
)

type intakeService interface {
	RecordLocation(ctx context.Context, in *service.RecordLocationInput) error
}

type recordLocationRequest struct {
	DeviceID  string   `json:"deviceId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

type LocationHandler struct {
	intake intakeService
}

func NewLocationHandler(intake intakeService) *LocationHandler {
	return &LocationHandler{intake: intake}
}

func (h *LocationHandler) Register(r *gin.RouterGroup) {
	r.POST("/locations", h.RecordLocation)
}

func (h *LocationHandler) RecordLocation(c *gin.Context) {
	var req recordLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "latitude and longitude are required"})
		return
	}

	var ts time.Time
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "timestamp must be RFC3339"})
			return
		}
		ts = parsed
	}

	in := &service.RecordLocationInput{
		DeviceID:  req.DeviceID,
		Lat:       *req.Latitude,
		Lng:       *req.Longitude,
		Accuracy:  req.Accuracy,
		Timestamp: ts,
	}

	if err := h.intake.RecordLocation(c.Request.Context(), in); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, domain.ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "device not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record location"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
