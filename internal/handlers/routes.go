package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every API handler the server mounts
type Handlers struct {
	Foods    *FoodHandler
	Intakes  *IntakeHandler
	Targets  *TargetHandler
	Progress *ProgressHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API on router. requireUser guards every route except health.
func RegisterRoutes(router fiber.Router, h Handlers, requireUser fiber.Handler) {
	if h.Health != nil {
		router.Get("/health", h.Health.Check)
	}

	router.Get("/daily-intakes/:date", requireUser, h.Intakes.GetIntake)
	router.Post("/daily-intakes", requireUser, h.Intakes.AddMeal)
	router.Delete("/daily-intakes/:date/:mealId", requireUser, h.Intakes.DeleteMeal)

	router.Get("/food-items", requireUser, h.Foods.ListFoods)
	router.Post("/food-items", requireUser, h.Foods.CreateFood)
	router.Post("/food-items/bulk", requireUser, h.Foods.BulkCreateFoods)
	router.Post("/food-items/import", requireUser, h.Foods.ImportFoods)
	router.Delete("/food-items/:id", requireUser, h.Foods.DeleteFood)
	router.Post("/upload-excel", requireUser, h.Foods.ImportFoods)

	router.Get("/targets", requireUser, h.Targets.GetTargets)
	router.Put("/targets", requireUser, h.Targets.SetTargets)

	router.Get("/progress/:date", requireUser, h.Progress.GetProgress)
}
