package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func LabRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	labs := api.Group("/labs", middleware.Protected())
	labs.Post("", handlers.CreateLab)
	labs.Get("", handlers.GetLabs)
	labs.Put("/:id", handlers.UpdateLab)
	labs.Delete("/:id", middleware.AdminRequired(), handlers.DeleteLab)

	orders := api.Group("/lab-orders", middleware.Protected())
	orders.Post("", handlers.CreateLabOrder)
	orders.Get("", handlers.GetLabOrders)
	orders.Put("/:id", handlers.UpdateLabOrder)
	orders.Delete("/:id", handlers.DeleteLabOrder)
}
