package handlers

import (
	"log/slog"

	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ProgressHandler serves per-day progress toward targets
type ProgressHandler struct {
	Progress *services.ProgressService
	Log      *slog.Logger
}

// GetProgress godoc
// @Summary Get progress for a date
// @Description Compare the day's totals to the user's targets with green/yellow/red bands per diet type
// @Tags Progress
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} services.DayProgress
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /progress/{date} [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	report, err := h.Progress.GetProgress(c.UserContext(), userID, c.Params("date"))
	if err != nil {
		return serviceError(c, h.Log, err, "progress.get")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}
