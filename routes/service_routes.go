package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func ServiceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	services := api.Group("/services", middleware.Protected())
	services.Post("", handlers.CreateService)
	services.Get("", handlers.GetServices)
	services.Get("/:id", handlers.GetService)
	services.Put("/:id", handlers.UpdateService)
	services.Delete("/:id", middleware.AdminRequired(), handlers.DeleteService)
}
