package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request at a level chosen by status code.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)),
		}

		switch {
		case status >= 500:
			Log.Error("Server error", append(fields, zap.Error(chainErr))...)
		case status >= 400:
			Log.Warn("Client error", fields...)
		default:
			Log.Info("Request completed", fields...)
		}

		return chainErr
	}
}
