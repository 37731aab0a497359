package handlers

import (
	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PrescriptionRequest struct {
	PatientID     string  `json:"patient_id" validate:"required,uuid"`
	AppointmentID *string `json:"appointment_id,omitempty" validate:"omitempty,uuid"`
	Medication    string  `json:"medication" validate:"required"`
	Dosage        string  `json:"dosage" validate:"required"`
	Instructions  *string `json:"instructions,omitempty"`
}

func CreatePrescription(c *fiber.Ctx) error {
	var req PrescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	patientID, _ := uuid.Parse(req.PatientID)
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	prescription := models.Prescription{
		PatientID:    patientID,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
	}
	if req.AppointmentID != nil {
		appointmentID, _ := uuid.Parse(*req.AppointmentID)
		var appointment models.Appointment
		if err := database.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		if appointment.PatientID != patientID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Appointment belongs to a different patient"})
		}
		prescription.AppointmentID = &appointmentID
	}

	if err := database.DB.Create(&prescription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create prescription"})
	}
	return c.Status(fiber.StatusCreated).JSON(prescription)
}

func GetPrescriptions(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Prescription{}).Preload("Patient")
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var prescriptions []models.Prescription
	if err := query.Order("created_at desc").Find(&prescriptions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch prescriptions"})
	}
	return c.JSON(prescriptions)
}

func UpdatePrescription(c *fiber.Ctx) error {
	var prescription models.Prescription
	if err := database.DB.First(&prescription, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Prescription not found"})
	}

	type body struct {
		Medication   *string `json:"medication,omitempty"`
		Dosage       *string `json:"dosage,omitempty"`
		Instructions *string `json:"instructions,omitempty"`
	}
	var req body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Medication != nil {
		prescription.Medication = *req.Medication
	}
	if req.Dosage != nil {
		prescription.Dosage = *req.Dosage
	}
	if req.Instructions != nil {
		prescription.Instructions = req.Instructions
	}

	if err := database.DB.Save(&prescription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update prescription"})
	}
	return c.JSON(prescription)
}

func DeletePrescription(c *fiber.Ctx) error {
	var prescription models.Prescription
	if err := database.DB.First(&prescription, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Prescription not found"})
	}
	if err := database.DB.Delete(&prescription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete prescription"})
	}
	return c.JSON(fiber.Map{"message": "Prescription deleted"})
}
