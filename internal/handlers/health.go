package handlers

import (
	"log/slog"

	"github.com/ApranavC/mypcf/internal/config"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports database and auth dependency health
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *slog.Logger
}

// Check godoc
// @Summary Health check
// @Description Ping the database and the auth dependency
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, requestLogger(c, h.Log))
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
