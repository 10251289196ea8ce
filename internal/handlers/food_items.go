package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ApranavC/mypcf/internal/archive"
	"github.com/ApranavC/mypcf/internal/importer"
	"github.com/ApranavC/mypcf/internal/models"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/types"
	"github.com/ApranavC/mypcf/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// FoodHandler serves the food catalog
type FoodHandler struct {
	Foods          *services.FoodService
	Archive        archive.Archiver
	MaxImportBytes int64
	Log            *slog.Logger
}

// CreateFoodRequest is the body of POST /food-items. Nutrient values are per
// 100g; missing or non-numeric values count as 0.
type CreateFoodRequest struct {
	Name     string          `json:"name" validate:"required"`
	Protein  types.FlexFloat `json:"protein" swaggertype:"number"`
	Carbs    types.FlexFloat `json:"carbs" swaggertype:"number"`
	Fats     types.FlexFloat `json:"fats" swaggertype:"number"`
	Calories types.FlexFloat `json:"calories" swaggertype:"number"`
}

// BulkFoodsRequest is the body of POST /food-items/bulk
type BulkFoodsRequest struct {
	Rows []map[string]interface{} `json:"rows" validate:"required"`
}

// ListFoods godoc
// @Summary List food items
// @Description List the user's foods, most recently created first
// @Tags Foods
// @Produce json
// @Success 200 {array} models.FoodItem
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /food-items [get]
func (h *FoodHandler) ListFoods(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	foods, err := h.Foods.ListFoods(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, h.Log, err, "foods.list")
	}
	return utils.SuccessResponse(c, foods, fiber.StatusOK)
}

// CreateFood godoc
// @Summary Create a food item
// @Description Create a food with nutrients per 100g
// @Tags Foods
// @Accept json
// @Produce json
// @Param food body CreateFoodRequest true "Food"
// @Success 201 {object} models.FoodItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /food-items [post]
func (h *FoodHandler) CreateFood(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req CreateFoodRequest
	if err := parseBody(c, &req, "foods.create"); err != nil {
		return err
	}

	food, err := h.Foods.CreateFood(c.UserContext(), userID, services.FoodInput{
		Name:     req.Name,
		Protein:  req.Protein.Float64(),
		Carbs:    req.Carbs.Float64(),
		Fats:     req.Fats.Float64(),
		Calories: req.Calories.Float64(),
	})
	if err != nil {
		return serviceError(c, h.Log, err, "foods.create")
	}
	return utils.SuccessResponse(c, food, fiber.StatusCreated)
}

// DeleteFood godoc
// @Summary Delete a food item
// @Description Delete one of the user's foods. Logged meals keep their snapshots.
// @Tags Foods
// @Param id path int true "Food ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /food-items/{id} [delete]
func (h *FoodHandler) DeleteFood(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	id, ok := parseID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, fmt.Sprintf("Invalid food id %q", c.Params("id")), "foods.delete")
	}

	if err := h.Foods.DeleteFood(c.UserContext(), userID, id); err != nil {
		return serviceError(c, h.Log, err, "foods.delete")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkCreateFoods godoc
// @Summary Bulk create food items from rows
// @Description Create foods from spreadsheet-shaped rows. Columns match Dish/Food/Name, Protein/P, Carbs/C, Fats/F, Calories/Cal case-insensitively.
// @Tags Foods
// @Accept json
// @Produce json
// @Param rows body BulkFoodsRequest true "Rows"
// @Success 201 {object} utils.ImportResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /food-items/bulk [post]
func (h *FoodHandler) BulkCreateFoods(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req BulkFoodsRequest
	if err := parseBody(c, &req, "foods.bulk"); err != nil {
		return err
	}

	return h.bulkCreate(c, userID, "rows", req.Rows)
}

// ImportFoods godoc
// @Summary Import food items from a spreadsheet
// @Description Upload an .xlsx or .csv file; the first sheet's header row names the columns
// @Tags Foods
// @Accept multipart/form-data
// @Produce json
// @Param excelFile formData file true "Spreadsheet"
// @Success 201 {object} utils.ImportResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 413 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /food-items/import [post]
// @Router /upload-excel [post]
func (h *FoodHandler) ImportFoods(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("excelFile")
	if err != nil {
		file, err = c.FormFile("file")
	}
	if err != nil {
		return utils.ValidationErrorResponse(c, "No file uploaded", "foods.import")
	}
	if h.MaxImportBytes > 0 && file.Size > h.MaxImportBytes {
		return utils.ErrorResponse(c, fmt.Sprintf("File exceeds %d bytes", h.MaxImportBytes), fiber.StatusRequestEntityTooLarge, "foods.import")
	}

	f, err := file.Open()
	if err != nil {
		return serviceError(c, h.Log, err, "foods.import")
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return serviceError(c, h.Log, err, "foods.import")
	}

	rows, format, err := importer.ReadRows(file.Filename, bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			return utils.ValidationErrorResponse(c, "Only .xlsx and .csv files are supported", "foods.import")
		}
		return utils.ValidationErrorResponse(c, fmt.Sprintf("Error parsing spreadsheet: %v", err), "foods.import")
	}

	if h.Archive != nil {
		location, err := h.Archive.Archive(c.UserContext(), userID, file.Filename, body)
		if err != nil {
			requestLogger(c, h.Log).Warn("failed to archive upload", "user", userID, "file", file.Filename, "error", err)
		} else if location != "" {
			requestLogger(c, h.Log).Info("archived upload", "user", userID, "location", location)
		}
	}

	return h.bulkCreate(c, userID, string(format), rows)
}

func (h *FoodHandler) bulkCreate(c *fiber.Ctx, userID, source string, rows []map[string]interface{}) error {
	foods, err := h.Foods.BulkCreateFoods(c.UserContext(), userID, source, rows)
	if err != nil {
		return serviceError(c, h.Log, err, "foods.bulk")
	}
	if foods == nil {
		foods = []models.FoodItem{}
	}
	message := fmt.Sprintf("Successfully imported %d food items", len(foods))
	return utils.ImportSuccessResponse(c, message, foods, len(foods))
}
