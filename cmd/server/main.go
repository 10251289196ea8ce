// main.go
//
// Daily nutrition intake tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of mypcf.
// mypcf is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mypcf is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mypcf.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ApranavC/mypcf/internal/archive"
	"github.com/ApranavC/mypcf/internal/config"
	"github.com/ApranavC/mypcf/internal/database"
	"github.com/ApranavC/mypcf/internal/handlers"
	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/middleware"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"

	_ "github.com/ApranavC/mypcf/docs/api" // Swagger docs
)

// @title mypcf API
// @version 1.0.0
// @description Daily nutrition intake tracking: food catalog, meal logging, targets and progress
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/ApranavC/mypcf

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	log := logging.NewLogger("mypcf", os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(".env")
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log = logging.NewLogger("mypcf", cfg.LogLevel)

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := services.NewVerifier(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize authentication", "mode", cfg.AuthMode, "error", err)
		os.Exit(1)
	}

	var archiver archive.Archiver = archive.Nop{}
	if cfg.ImportArchiveBucket != "" {
		s3Archive, err := archive.NewS3(ctx, cfg.ImportArchiveBucket, cfg.S3Region)
		if err != nil {
			log.Error("failed to initialize import archive", "bucket", cfg.ImportArchiveBucket, "error", err)
			os.Exit(1)
		}
		archiver = s3Archive
		log.Info("archiving imports", "bucket", cfg.ImportArchiveBucket)
	}

	foods := services.NewFoodService(db, log)
	intakes := services.NewIntakeService(db, foods, log)
	targets := services.NewTargetService(db, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		// Multipart overhead on top of the largest accepted spreadsheet
		BodyLimit:             cfg.ImportMaxBytes + 64*1024,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Version, X-User-ID",
		AllowCredentials: false,
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("mypcf")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.RequestContext(cfg.RequestTimeout), middleware.VersionMiddleware())

	handlers.RegisterRoutes(api, handlers.Handlers{
		Foods: &handlers.FoodHandler{
			Foods:          foods,
			Archive:        archiver,
			MaxImportBytes: int64(cfg.ImportMaxBytes),
			Log:            log,
		},
		Intakes:  &handlers.IntakeHandler{Intakes: intakes, Log: log},
		Targets:  &handlers.TargetHandler{Targets: targets, Log: log},
		Progress: &handlers.ProgressHandler{Progress: services.NewProgressService(intakes, targets), Log: log},
		Health:   &handlers.HealthHandler{Config: cfg, DB: db, Log: log},
	}, middleware.RequireUser(verifier, cfg.AuthMode))

	// 404 handler
	app.Use(handlers.NotFound)

	go func() {
		<-ctx.Done()
		log.Info("gracefully shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("starting server", "port", cfg.Port, "db", cfg.DBType, "auth", cfg.AuthMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
