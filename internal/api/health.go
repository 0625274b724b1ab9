package api

import (
	"context"
	"time"

	"github.com/chefmate/chefmate-backend/internal/services/store"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store       store.Store
	redisClient *redis.Client
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(recipeStore store.Store, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{store: recipeStore, redisClient: redisClient}
}

// HealthCheck returns the health status of the service and its dependencies
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	storeStatus := h.checkStore()
	redisStatus := h.checkRedis()

	overallStatus := "healthy"
	statusCode := fiber.StatusOK

	if storeStatus != "healthy" || redisStatus == "unhealthy" {
		overallStatus = "degraded"
		statusCode = fiber.StatusServiceUnavailable
	}

	response := fiber.Map{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": fiber.Map{
			"recipe_store": storeStatus,
			"redis":        redisStatus,
		},
	}

	return c.Status(statusCode).JSON(response)
}

// checkStore verifies the recipe store answers reads
func (h *HealthHandler) checkStore() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := h.store.List(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// checkRedis verifies Redis connectivity when configured
func (h *HealthHandler) checkRedis() string {
	if h.redisClient == nil {
		return "not_configured"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return "unhealthy"
	}
	return "healthy"
}
