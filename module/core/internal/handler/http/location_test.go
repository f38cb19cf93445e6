package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/service"
)

type mockIntakeService struct {
	recordFn func(ctx context.Context, in *service.RecordLocationInput) error
	calls    []*service.RecordLocationInput
}

func (m *mockIntakeService) RecordLocation(ctx context.Context, in *service.RecordLocationInput) error {
	m.calls = append(m.calls, in)
	if m.recordFn != nil {
		return m.recordFn(ctx, in)
	}
	return nil
}

func setupLocationRouter(svc intakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLocationHandler(svc)
	h.Register(r.Group(""))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRecordLocation_Success(t *testing.T) {
	svc := &mockIntakeService{}
	r := setupLocationRouter(svc)

	body := `{"deviceId":"d1","latitude":35.6596,"longitude":139.7005,"accuracy":12.5,"timestamp":"2024-05-06T14:30:56Z"}`
	w := postJSON(r, "/locations", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(svc.calls))
	}
	in := svc.calls[0]
	if in.DeviceID != "d1" || in.Lat != 35.6596 || in.Lng != 139.7005 {
		t.Errorf("unexpected input %+v", in)
	}
	if in.Accuracy == nil || *in.Accuracy != 12.5 {
		t.Errorf("unexpected accuracy %v", in.Accuracy)
	}
	expected := time.Date(2024, 5, 6, 14, 30, 56, 0, time.UTC)
	if !in.Timestamp.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, in.Timestamp)
	}
}

func TestRecordLocation_ZeroCoordinatesAccepted(t *testing.T) {
	svc := &mockIntakeService{}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/locations", `{"deviceId":"d1","latitude":0,"longitude":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for 0,0 coordinates, got %d", w.Code)
	}
	if len(svc.calls) != 1 {
		t.Fatal("expected the sample to reach the service")
	}
}

func TestRecordLocation_MissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no latitude", `{"deviceId":"d1","longitude":139.7005}`},
		{"no longitude", `{"deviceId":"d1","latitude":35.6596}`},
		{"empty body", `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockIntakeService{}
			r := setupLocationRouter(svc)

			w := postJSON(r, "/locations", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if len(svc.calls) != 0 {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestRecordLocation_MalformedJSON(t *testing.T) {
	svc := &mockIntakeService{}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/locations", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecordLocation_BadTimestamp(t *testing.T) {
	svc := &mockIntakeService{}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/locations", `{"deviceId":"d1","latitude":35.6,"longitude":139.7,"timestamp":"06/05/2024"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(svc.calls) != 0 {
		t.Fatal("service must not be called")
	}
}

func TestRecordLocation_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid input", fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidInput), http.StatusBadRequest},
		{"device not found", fmt.Errorf("%w: d-missing", domain.ErrDeviceNotFound), http.StatusNotFound},
		{"persistence failure", fmt.Errorf("%w: insert location sample", domain.ErrPersistence), http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockIntakeService{
				recordFn: func(_ context.Context, _ *service.RecordLocationInput) error {
					return tc.err
				},
			}
			r := setupLocationRouter(svc)

			w := postJSON(r, "/locations", `{"deviceId":"d1","latitude":35.6,"longitude":139.7}`)
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
		})
	}
}
