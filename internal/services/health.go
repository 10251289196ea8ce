package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ApranavC/mypcf/internal/config"
	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/utils"
	"gorm.io/gorm"
)

type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Auth         string            `json:"auth"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// authDependency returns the remote service the configured auth mode relies on
func authDependency(cfg *config.Config) string {
	switch cfg.AuthMode {
	case "authorizer":
		return cfg.AuthzURL
	case "jwks":
		return cfg.JWKSURL
	}
	return ""
}

func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *slog.Logger) HealthCheckResult {
	log = logging.OrDiscard(log)
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(msg string) {
		result.Status = "unhealthy"
		if result.ErrorMessage == "" {
			result.ErrorMessage = msg
		} else {
			result.ErrorMessage += "; " + msg
		}
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail(fmt.Sprintf("Database connection error: %v", err))
		log.Error("health check failed", "component", "database", "error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		fail(fmt.Sprintf("Database ping failed: %v", err))
		log.Error("health check failed", "component", "database", "error", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	result.Details["auth_mode"] = cfg.AuthMode
	if target := authDependency(cfg); target == "" {
		result.Auth = "local"
	} else if err := utils.PingService(ctx, target, utils.DefaultPingTimeout); err != nil {
		result.Auth = "unreachable"
		result.Details["auth_error"] = err.Error()
		fail(fmt.Sprintf("Auth service ping failed: %v", err))
		log.Error("health check failed", "component", "auth", "error", err)
	} else {
		result.Auth = "ok"
		result.Details["auth_url"] = target
	}

	if result.Status == "healthy" {
		log.Debug("health check passed")
	}

	return result
}
