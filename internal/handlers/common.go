package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/middleware"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/types"
	"github.com/ApranavC/mypcf/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", types.NewCustomError(fiber.StatusUnauthorized, "auth.user", "user not found in context")
	}
	return userID, nil
}

func requestLogger(c *fiber.Ctx, log *slog.Logger) *slog.Logger {
	requestID, _ := c.Locals("requestid").(string)
	return logging.WithRequestID(logging.OrDiscard(log), requestID)
}

// parseBody decodes the JSON body into dst and runs its validate tags.
// Failures come back as 400 errors for ErrorHandler to render.
func parseBody(c *fiber.Ctx, dst interface{}, errorType string) error {
	if err := c.BodyParser(dst); err != nil {
		return types.NewCustomError(fiber.StatusBadRequest, errorType, "Invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return types.NewCustomError(fiber.StatusBadRequest, errorType, "%s", describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request: " + strings.Join(msgs, "; ")
}

func parseID(c *fiber.Ctx, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	return id, err == nil && id > 0
}

// serviceError maps a service error onto the standard envelope
func serviceError(c *fiber.Ctx, log *slog.Logger, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error(), errorType)
	case errors.Is(err, services.ErrValidation):
		return utils.ValidationErrorResponse(c, err.Error(), errorType)
	}

	var pe *services.PersistenceError
	if errors.As(err, &pe) {
		requestLogger(c, log).Error("storage failure", "op", pe.Op, "error", pe.Err, "type", errorType)
	} else {
		requestLogger(c, log).Error("request failed", "error", err, "type", errorType)
	}
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}

// ErrorHandler renders errors returned from middleware and handlers in the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var ce *types.CustomError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
		if code == fiber.StatusRequestEntityTooLarge {
			errorType = "request.size"
		}
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound is the catch-all for unknown routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found", "route")
}
