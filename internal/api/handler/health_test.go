package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func decodeHealth(t *testing.T, body io.Reader) HealthResponse {
	t.Helper()
	raw, _ := io.ReadAll(body)
	var result HealthResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return result
}

func TestHealthHandler_Home(t *testing.T) {
	app := fiber.New()
	handler := NewHealthHandler(nil, "test")
	app.Get("/", handler.Home)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Failed to test: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	result := decodeHealth(t, resp.Body)
	if result.Message == "" {
		t.Error("Message should not be empty")
	}
}

func TestHealthHandler_Health(t *testing.T) {
	app := fiber.New()
	handler := NewHealthHandler(nil, "1.2.3")
	app.Get("/health", handler.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Failed to test: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	result := decodeHealth(t, resp.Body)
	if result.Status != "ok" {
		t.Errorf("Status = %s, want ok", result.Status)
	}
	if result.Version != "1.2.3" {
		t.Errorf("Version = %s, want 1.2.3", result.Version)
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
		wantBody   string
	}{
		{"store reachable", stubPinger{}, 200, "ready"},
		{"store down", stubPinger{err: errors.New("connection refused")}, 503, "unavailable"},
		{"no store configured", nil, 200, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			handler := NewHealthHandler(tt.store, "test")
			app.Get("/ready", handler.Ready)

			resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
			if err != nil {
				t.Fatalf("Failed to test: %v", err)
			}

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			result := decodeHealth(t, resp.Body)
			if result.Status != tt.wantBody {
				t.Errorf("Status = %s, want %s", result.Status, tt.wantBody)
			}
		})
	}
}
