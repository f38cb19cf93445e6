package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carewatch/carewatch/module/core/domain"
)

type mockDeviceService struct {
	getAllFn     func(ctx context.Context) ([]domain.Device, error)
	getHistoryFn func(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error)
}

func (m *mockDeviceService) GetAllDevices(ctx context.Context) ([]domain.Device, error) {
	return m.getAllFn(ctx)
}

func (m *mockDeviceService) GetHistory(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error) {
	return m.getHistoryFn(ctx, deviceID, limit)
}

func setupDeviceRouter(svc deviceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDeviceHandler(svc)
	h.Register(r.Group(""))
	return r
}

func TestGetAllDevices_Success(t *testing.T) {
	svc := &mockDeviceService{
		getAllFn: func(_ context.Context) ([]domain.Device, error) {
			return []domain.Device{
				{ID: "d1", UserID: "u1", Name: "Tracker A", Active: true},
				{ID: "d2", UserID: "u2", Name: "Tracker B", Active: false},
			}, nil
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp []domain.Device
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "d1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGetAllDevices_Error(t *testing.T) {
	svc := &mockDeviceService{
		getAllFn: func(_ context.Context) ([]domain.Device, error) {
			return nil, errors.New("db error")
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetHistory_Success(t *testing.T) {
	ts := time.Unix(1715003456, 0)
	svc := &mockDeviceService{
		getHistoryFn: func(_ context.Context, deviceID string, limit int) ([]domain.LocationSample, error) {
			if deviceID != "d1" {
				t.Fatalf("unexpected device id %s", deviceID)
			}
			if limit != 25 {
				t.Fatalf("expected limit 25, got %d", limit)
			}
			return []domain.LocationSample{
				{DeviceID: "d1", Location: domain.Coordinate{Lat: 35.6596, Lng: 139.7005}, Timestamp: ts},
			}, nil
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices/d1/history?limit=25", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp []domain.LocationSample
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(resp))
	}
}

func TestGetHistory_DefaultLimit(t *testing.T) {
	svc := &mockDeviceService{
		getHistoryFn: func(_ context.Context, _ string, limit int) ([]domain.LocationSample, error) {
			if limit != 100 {
				t.Fatalf("expected default limit 100, got %d", limit)
			}
			return nil, nil
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices/d1/history", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	r := setupDeviceRouter(&mockDeviceService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices/d1/history?limit=-5", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetHistory_InvalidInput(t *testing.T) {
	svc := &mockDeviceService{
		getHistoryFn: func(_ context.Context, _ string, _ int) ([]domain.LocationSample, error) {
			return nil, fmt.Errorf("%w: device id is required", domain.ErrInvalidInput)
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices/%20/history", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetHistory_ServiceError(t *testing.T) {
	svc := &mockDeviceService{
		getHistoryFn: func(_ context.Context, _ string, _ int) ([]domain.LocationSample, error) {
			return nil, errors.New("db error")
		},
	}

	r := setupDeviceRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/devices/d1/history", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
