// handlers/errors.go - Error to HTTP response mapping
package handlers

import (
	"errors"
	"log/slog"

	"portfolio/middleware"
	"portfolio/services"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Internal server error"

// statusFor maps a service error kind to its HTTP status. Conflicts are
// reported as bad requests.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, true
	case errors.Is(err, services.ErrAuth):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusBadRequest, true
	}
	return 0, false
}

// newErrorHandler renders every error that reaches Fiber as {"error": msg}.
// Unclassified errors are logged and hidden behind a generic message.
func newErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if status, ok := statusFor(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": services.Message(err)})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error("request failed",
			slog.String("request_id", middleware.RequestID(c)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalErrorMessage})
	}
}
