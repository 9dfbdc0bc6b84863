package middleware

import (
	"log/slog"
	"time"

	"budget-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger logs every request once it has been answered. Errors from
// the chain are rendered here through the app's ErrorHandler so the
// logged status is the one the client receives.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"request_id", requestID(c),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			attrs = append(attrs, "user_id", userID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error("request failed", attrs...)
		case status >= fiber.StatusBadRequest:
			slog.Warn("request rejected", attrs...)
		default:
			slog.Info("request ok", attrs...)
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
