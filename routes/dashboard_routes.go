package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(app *fiber.App, h *handlers.DashboardHandler) {
	api := app.Group("/api/v1")

	api.Get("/dashboard/stats", middleware.Protected(), h.GetStats)

	api.Use("/ws/schedule", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/schedule", websocket.New(handlers.ServeScheduleWs))
}
