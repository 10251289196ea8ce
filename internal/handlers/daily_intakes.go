package handlers

import (
	"log/slog"

	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/types"
	"github.com/ApranavC/mypcf/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// IntakeHandler serves daily intakes
type IntakeHandler struct {
	Intakes *services.IntakeService
	Log     *slog.Logger
}

// DishRequestBody is one requested dish. foodId may be a number or a numeric
// string; quantity is in grams and defaults to 100.
type DishRequestBody struct {
	FoodID   types.FlexID     `json:"foodId" swaggertype:"integer"`
	Quantity *types.FlexFloat `json:"quantity,omitempty" swaggertype:"number"`
}

// AddMealRequest is the body of POST /daily-intakes
type AddMealRequest struct {
	Date     string                          `json:"date" validate:"required"`
	MealType string                          `json:"mealType" validate:"required"`
	Dishes   types.FlexList[DishRequestBody] `json:"dishes" validate:"required,min=1" swaggertype:"array,object"`
}

func (r AddMealRequest) dishRequests() []services.DishRequest {
	reqs := make([]services.DishRequest, 0, len(r.Dishes))
	for _, d := range r.Dishes.Slice() {
		req := services.DishRequest{FoodID: d.FoodID.Uint64()}
		if d.Quantity != nil {
			q := d.Quantity.Float64()
			req.Quantity = &q
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// GetIntake godoc
// @Summary Get a daily intake
// @Description Get the user's meals and totals for a date. Dates without meals return an empty intake.
// @Tags DailyIntakes
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.DailyIntake
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /daily-intakes/{date} [get]
func (h *IntakeHandler) GetIntake(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	intake, err := h.Intakes.GetIntake(c.UserContext(), userID, c.Params("date"))
	if err != nil {
		return serviceError(c, h.Log, err, "intakes.get")
	}
	return utils.SuccessResponse(c, intake, fiber.StatusOK)
}

// AddMeal godoc
// @Summary Add a meal
// @Description Append a meal to the user's intake for a date and recompute the day totals. Dishes referencing unknown foods are dropped.
// @Tags DailyIntakes
// @Accept json
// @Produce json
// @Param meal body AddMealRequest true "Meal"
// @Success 201 {object} models.DailyIntake
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /daily-intakes [post]
func (h *IntakeHandler) AddMeal(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req AddMealRequest
	if err := parseBody(c, &req, "intakes.add"); err != nil {
		return err
	}

	intake, err := h.Intakes.AddMeal(c.UserContext(), userID, req.Date, req.MealType, req.dishRequests())
	if err != nil {
		return serviceError(c, h.Log, err, "intakes.add")
	}
	return utils.SuccessResponse(c, intake, fiber.StatusCreated)
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Description Remove a meal by id and recompute the day totals. Unknown meal ids leave the intake unchanged.
// @Tags DailyIntakes
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param mealId path string true "Meal ID"
// @Success 200 {object} models.DailyIntake
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /daily-intakes/{date}/{mealId} [delete]
func (h *IntakeHandler) DeleteMeal(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	intake, err := h.Intakes.DeleteMeal(c.UserContext(), userID, c.Params("date"), c.Params("mealId"))
	if err != nil {
		return serviceError(c, h.Log, err, "intakes.delete")
	}
	return utils.SuccessResponse(c, intake, fiber.StatusOK)
}
