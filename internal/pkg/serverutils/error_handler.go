package serverutils

import (
	"errors"

	"ux-collector-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide fiber.ErrorHandler. Errors a handler did not map
// itself become {ok:false,error} with the fiber status, or 500.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(message))
	}
}
