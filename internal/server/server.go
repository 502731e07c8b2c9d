package server

import (
	"github.com/Kyz7/landing/internal/landing"
	"github.com/Kyz7/landing/internal/media"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Options struct {
	UploadDir     string
	PublicBaseURL string
	RateLimit     bool
}

func New(db *gorm.DB, opts Options) *fiber.App {
	if opts.UploadDir == "" {
		opts.UploadDir = "./uploads"
	}
	landing.PublicBaseURL = opts.PublicBaseURL

	app := fiber.New(fiber.Config{
		BodyLimit:    media.MaxImageSize + 1024*1024,
		ErrorHandler: errorHandler,
	})

	app.Static("/uploads", opts.UploadDir, fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app, opts)

	return app
}

// errorHandler keeps router errors such as unknown routes inside the
// response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		switch e.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "Route")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, e.Code, "PAYLOAD_TOO_LARGE", e.Message, nil)
		}
		return response.Error(c, e.Code, "ERROR", e.Message, nil)
	}
	return response.InternalError(c, err.Error())
}
