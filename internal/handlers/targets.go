package handlers

import (
	"log/slog"

	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// TargetHandler serves daily targets
type TargetHandler struct {
	Targets *services.TargetService
	Log     *slog.Logger
}

// SetTargetsRequest is the body of PUT /targets. Omitted fields keep their value.
type SetTargetsRequest struct {
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
	Calories *float64 `json:"calories"`
	DietType *string  `json:"dietType" enums:"maintenance,deficit,surplus"`
}

// GetTargets godoc
// @Summary Get daily targets
// @Description Get the user's daily targets, creating the defaults on first read
// @Tags Targets
// @Produce json
// @Success 200 {object} models.Target
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /targets [get]
func (h *TargetHandler) GetTargets(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	target, err := h.Targets.GetTargets(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, h.Log, err, "targets.get")
	}
	return utils.SuccessResponse(c, target, fiber.StatusOK)
}

// SetTargets godoc
// @Summary Update daily targets
// @Description Upsert the user's daily targets
// @Tags Targets
// @Accept json
// @Produce json
// @Param targets body SetTargetsRequest true "Targets"
// @Success 200 {object} models.Target
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /targets [put]
func (h *TargetHandler) SetTargets(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req SetTargetsRequest
	if err := parseBody(c, &req, "targets.set"); err != nil {
		return err
	}

	target, err := h.Targets.SetTargets(c.UserContext(), userID, services.TargetPatch{
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Calories: req.Calories,
		DietType: req.DietType,
	})
	if err != nil {
		return serviceError(c, h.Log, err, "targets.set")
	}
	return utils.SuccessResponse(c, target, fiber.StatusOK)
}
