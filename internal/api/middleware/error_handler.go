package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// ErrorHandler renders every error as {"error":{"code","message"}}.
// Server-side failures are logged; their cause never reaches the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return writeError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message, "")
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					slog.String("code", appErr.Code),
					slog.Any("error", appErr.Err),
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
					slog.Any("request_id", c.Locals("requestid")),
				)
				return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message, "")
			}

			details := ""
			if appErr.Err != nil {
				details = appErr.Err.Error()
			}
			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message, details)
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return writeError(c, fiber.StatusGatewayTimeout, "TIMEOUT", "The request took too long to complete", "")
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("request_id", c.Locals("requestid")),
		)
		return writeError(c, fiber.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message, "")
	}
}

func writeError(c *fiber.Ctx, status int, code, message, details string) error {
	body := fiber.Map{
		"code":    code,
		"message": message,
	}
	if details != "" {
		body["details"] = details
	}
	return c.Status(status).JSON(fiber.Map{"error": body})
}
