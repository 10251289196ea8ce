package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/ApranavC/mypcf/internal/archive"
	"github.com/ApranavC/mypcf/internal/config"
	"github.com/ApranavC/mypcf/internal/handlers"
	"github.com/ApranavC/mypcf/internal/middleware"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TestSecret signs tokens for servers built in jwt mode
const TestSecret = "mypcf-test-secret"

// ServerOptions tunes NewTestServer
type ServerOptions struct {
	AuthMode       string
	Archive        archive.Archiver
	MaxImportBytes int64
}

// NewTestServer mounts the full API on db the same way the server binary does
func NewTestServer(t *testing.T, db *gorm.DB, opts ServerOptions) *fiber.App {
	t.Helper()
	if opts.AuthMode == "" {
		opts.AuthMode = "header"
	}
	if opts.MaxImportBytes == 0 {
		opts.MaxImportBytes = 1 << 20
	}

	cfg := &config.Config{AuthMode: opts.AuthMode, JWTSecret: TestSecret, DBType: "sqlite", DBDatabase: ":memory:"}
	verifier, err := services.NewVerifier(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create verifier: %v", err)
	}

	foods := services.NewFoodService(db, nil)
	intakes := services.NewIntakeService(db, foods, nil)
	targets := services.NewTargetService(db, nil)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	api := app.Group("/api", middleware.RequestContext(10*time.Second), middleware.VersionMiddleware())
	handlers.RegisterRoutes(api, handlers.Handlers{
		Foods:    &handlers.FoodHandler{Foods: foods, Archive: opts.Archive, MaxImportBytes: opts.MaxImportBytes},
		Intakes:  &handlers.IntakeHandler{Intakes: intakes},
		Targets:  &handlers.TargetHandler{Targets: targets},
		Progress: &handlers.ProgressHandler{Progress: services.NewProgressService(intakes, targets)},
		Health:   &handlers.HealthHandler{Config: cfg, DB: db},
	}, middleware.RequireUser(verifier, opts.AuthMode))
	app.Use(handlers.NotFound)

	return app
}
