package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func DocumentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Delete("/documents/:id", middleware.Protected(), handlers.DeleteDocument)
}
