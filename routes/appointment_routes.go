package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func AppointmentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	appointments := api.Group("/appointments", middleware.Protected())
	appointments.Post("", handlers.CreateAppointment)
	appointments.Get("", handlers.GetAppointments)
	appointments.Get("/:id", handlers.GetAppointment)
	appointments.Put("/:id", handlers.UpdateAppointment)
	appointments.Delete("/:id", handlers.DeleteAppointment)
}
