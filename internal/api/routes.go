package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nordai-studio/studio-cms/internal/middleware"
)

// SetupRoutes registers every route of the admin service.
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.HealthCheck)

	// OAuth flow; these precede the session gate by necessity.
	app.Get("/auth/login", h.Login)
	app.Get("/auth/callback", h.AuthCallback)
	app.Post("/auth/logout", h.Logout)

	api := app.Group("/api/v1")

	// Public site endpoints.
	api.Post("/contact", h.Contact)

	// Admin endpoints behind the session gate.
	admin := api.Group("", middleware.SessionRequired(h.gate))
	admin.Get("/me", h.Me)

	admin.Get("/content/:type", h.ListContent)
	admin.Get("/content/:type/:slug", h.GetContent)
	admin.Post("/content/:type", h.CreateContent)
	admin.Put("/content/:type/:slug", h.UpdateContent)
	admin.Delete("/content/:type/:slug", h.DeleteContent)

	admin.Post("/media", h.UploadMedia)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})
}
