package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	version string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}

// Home GET / - liveness banner
func (h *HealthHandler) Home(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Message: "Welcome to the Face Recognition API!",
	})
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready reports ready only when the profile store answers
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Context(), readyTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status:  "unavailable",
				Message: err.Error(),
			})
		}
	}

	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
