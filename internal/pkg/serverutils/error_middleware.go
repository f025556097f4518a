package serverutils

import (
	"errors"

	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain error kinds onto HTTP statuses.
// Transport failures are logged with their cause but surfaced generically;
// nothing here is fatal to the process.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, err.Error()))
		case errors.Is(err, apperrors.ErrAuth):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, err.Error()))
		case errors.Is(err, apperrors.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, err.Error()))
		default:
			log.Error("HTTP", "Unhandled request error", map[string]interface{}{
				"error":  err.Error(),
				"path":   ctx.Path(),
				"method": ctx.Method(),
			})
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Something went wrong. Please try again."))
		}
	}
}
