package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okPing(context.Context) error { return nil }

func TestHealthHandler_Liveness(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(PingFunc(okPing), nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		store  Pinger
		redis  Pinger
		status int
	}{
		{"store only", PingFunc(okPing), nil, http.StatusOK},
		{"store and redis", PingFunc(okPing), PingFunc(okPing), http.StatusOK},
		{"store down", down, nil, http.StatusServiceUnavailable},
		{"redis down", PingFunc(okPing), down, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.store, tt.redis).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
