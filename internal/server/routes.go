package server

import (
	"time"

	"github.com/Kyz7/landing/internal/auth"
	"github.com/Kyz7/landing/internal/enquiry"
	"github.com/Kyz7/landing/internal/landing"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/media"
	"github.com/Kyz7/landing/internal/metrics"
	"github.com/Kyz7/landing/internal/middleware"
	"github.com/Kyz7/landing/internal/public"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupRoutes(app *fiber.App, opts Options) {
	// Middleware
	app.Use(logger.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Landing page API is running",
		})
	})
	app.Get("/metrics", metrics.Handler())

	// ==========================================
	// AUTH
	// ==========================================
	authGroup := app.Group("/auth")
	if opts.RateLimit {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        10,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
		}))
	}
	authGroup.Post("/login", auth.LoginHandler)
	authGroup.Post("/refresh", auth.RefreshHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/register", auth.JWTProtected(), auth.RoleProtected(role.Admin), auth.RegisterHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)
	authGroup.Get("/me", auth.JWTProtected(), auth.MeHandler)

	// ==========================================
	// ROLES (Admin only)
	// ==========================================
	roleGroup := app.Group("/roles")
	roleGroup.Use(auth.JWTProtected())
	roleGroup.Use(auth.RoleProtected(role.Admin))
	roleGroup.Get("/", role.ListRolesHandler)

	// ==========================================
	// LANDING PAGES
	// ==========================================
	pages := app.Group("/landing-pages")
	pages.Use(auth.JWTProtected())

	// Registered before /:id so "images" is never read as an id.
	pages.Post("/images",
		middleware.PermissionProtected(role.ModuleMedia, "create"),
		media.UploadImageHandler)

	pages.Get("/",
		middleware.PermissionProtected(role.ModuleLandingPage, "read"),
		landing.ListHandler)
	pages.Post("/",
		middleware.PermissionProtected(role.ModuleLandingPage, "create"),
		landing.CreateHandler)
	pages.Get("/:id",
		middleware.PermissionProtected(role.ModuleLandingPage, "read"),
		landing.GetHandler)
	pages.Put("/:id",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.UpdateHandler)
	pages.Delete("/:id",
		middleware.PermissionProtected(role.ModuleLandingPage, "delete"),
		landing.DeleteHandler)
	pages.Get("/:id/preview",
		middleware.PermissionProtected(role.ModuleLandingPage, "read"),
		landing.PreviewHandler)

	// Publishing
	pages.Post("/:id/publish",
		middleware.PermissionProtected(role.ModuleLandingPage, "publish"),
		workflow.PublishHandler)
	pages.Post("/:id/unpublish",
		middleware.PermissionProtected(role.ModuleLandingPage, "publish"),
		workflow.UnpublishHandler)
	pages.Get("/:id/history",
		middleware.PermissionProtected(role.ModuleLandingPage, "read"),
		workflow.HistoryHandler)

	// Section editor
	pages.Post("/:id/sections",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.AddSectionHandler)
	pages.Patch("/:id/sections/:key",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.UpdateSectionHandler)
	pages.Delete("/:id/sections/:key",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.RemoveSectionHandler)
	pages.Post("/:id/sections/:key/move",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.MoveSectionHandler)
	pages.Post("/:id/sections/:key/items",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.AddItemHandler)
	pages.Patch("/:id/sections/:key/items/:index",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.UpdateItemHandler)
	pages.Delete("/:id/sections/:key/items/:index",
		middleware.PermissionProtected(role.ModuleLandingPage, "update"),
		landing.RemoveItemHandler)

	// Enquiries
	pages.Get("/:id/enquiries",
		middleware.PermissionProtected(role.ModuleEnquiry, "read"),
		enquiry.ListHandler)

	// ==========================================
	// MEDIA LIBRARY
	// ==========================================
	mediaGroup := app.Group("/media")
	mediaGroup.Use(auth.JWTProtected())
	mediaGroup.Get("/",
		middleware.PermissionProtected(role.ModuleMedia, "read"),
		media.ListMediaHandler)
	mediaGroup.Get("/:id",
		middleware.PermissionProtected(role.ModuleMedia, "read"),
		media.GetMediaHandler)
	mediaGroup.Delete("/:id",
		middleware.PermissionProtected(role.ModuleMedia, "delete"),
		media.DeleteMediaHandler)

	// ==========================================
	// PUBLIC (no authentication)
	// ==========================================
	app.Get("/public/landing-pages/:slug", public.PageHandler)
	app.Post("/public/landing-pages/:slug/enquiries", public.SubmitEnquiryHandler)
	app.Get("/landing-page/:slug", public.PageHTMLHandler)
	app.Post("/landing-page/:slug/enquiries", public.SubmitEnquiryFormHandler)
}
