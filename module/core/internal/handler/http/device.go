package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carewatch/carewatch/module/core/domain"
)

type deviceService interface {
	GetAllDevices(ctx context.Context) ([]domain.Device, error)
	GetHistory(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error)
}

type DeviceHandler struct {
	devices deviceService
}

func NewDeviceHandler(devices deviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

func (h *DeviceHandler) Register(r *gin.RouterGroup) {
	r.GET("/devices", h.GetAllDevices)
	r.GET("/devices/:device_id/history", h.GetHistory)
}

func (h *DeviceHandler) GetAllDevices(c *gin.Context) {
	devices, err := h.devices.GetAllDevices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch devices"})
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (h *DeviceHandler) GetHistory(c *gin.Context) {
	deviceID := c.Param("device_id")

	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	samples, err := h.devices.GetHistory(c.Request.Context(), deviceID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, samples)
}
