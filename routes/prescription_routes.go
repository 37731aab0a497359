package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func PrescriptionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	prescriptions := api.Group("/prescriptions", middleware.Protected())
	prescriptions.Post("", middleware.DentistRequired(), handlers.CreatePrescription)
	prescriptions.Get("", handlers.GetPrescriptions)
	prescriptions.Put("/:id", middleware.DentistRequired(), handlers.UpdatePrescription)
	prescriptions.Delete("/:id", middleware.DentistRequired(), handlers.DeletePrescription)
}
