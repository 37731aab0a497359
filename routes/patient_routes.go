package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func PatientRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	patients := api.Group("/patients", middleware.Protected())
	patients.Post("", handlers.CreatePatient)
	patients.Get("", handlers.GetPatients)
	patients.Get("/:id", handlers.GetPatient)
	patients.Put("/:id", handlers.UpdatePatient)
	patients.Delete("/:id", middleware.AdminRequired(), handlers.DeletePatient)

	patients.Post("/:patientId/documents", handlers.UploadDocument)
	patients.Get("/:patientId/documents", handlers.GetPatientDocuments)
}
