package handlers

import (
	"time"

	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/brightsmile/dental_clinic/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ServiceID string  `json:"service_id" validate:"required,uuid"`
	DentistID *string `json:"dentist_id,omitempty" validate:"omitempty,uuid"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateAppointmentRequest struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes     *string `json:"notes,omitempty"`
}

func CreateAppointment(c *fiber.Ctx) error {
	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	serviceID, _ := uuid.Parse(req.ServiceID)
	var service models.Service
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be RFC3339"})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be RFC3339"})
	}
	if !endTime.After(startTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be after start_time"})
	}

	appointment := models.Appointment{
		PatientID: service.PatientID,
		ServiceID: service.ID,
		StartTime: startTime,
		EndTime:   endTime,
		Notes:     req.Notes,
	}
	if req.DentistID != nil {
		dentistID, _ := uuid.Parse(*req.DentistID)
		var dentist models.User
		if err := database.DB.First(&dentist, "id = ? AND role = ?", dentistID, "dentist").Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dentist not found"})
		}
		appointment.DentistID = &dentistID
	}

	if err := database.DB.Create(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create appointment"})
	}

	database.DB.Preload("Patient").Preload("Service").First(&appointment, "id = ?", appointment.ID)
	websocket.Notify("created", appointment)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetAppointments lists appointments for the calendar. Accepts from/to
// (RFC3339) plus patient_id, service_id and status filters.
func GetAppointments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Appointment{}).
		Preload("Patient").
		Preload("Service").
		Preload("Dentist")

	if from := c.Query("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be RFC3339"})
		}
		query = query.Where("start_time >= ?", fromTime)
	}
	if to := c.Query("to"); to != "" {
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be RFC3339"})
		}
		query = query.Where("start_time < ?", toTime)
	}
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if serviceID := c.Query("service_id"); serviceID != "" {
		query = query.Where("service_id = ?", serviceID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Order("start_time asc").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch appointments"})
	}
	return c.JSON(appointments)
}

func GetAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	err := database.DB.
		Preload("Patient").
		Preload("Service").
		Preload("Dentist").
		First(&appointment, "id = ?", c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}
	return c.JSON(appointment)
}

func UpdateAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}

	var req UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_time must be RFC3339"})
		}
		appointment.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be RFC3339"})
		}
		appointment.EndTime = endTime
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_time must be after start_time"})
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = req.Notes
	}

	if err := database.DB.Save(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update appointment"})
	}

	database.DB.Preload("Patient").Preload("Service").First(&appointment, "id = ?", appointment.ID)
	action := "updated"
	if appointment.Status == "cancelled" {
		action = "cancelled"
	}
	websocket.Notify(action, appointment)

	return c.JSON(appointment)
}

func DeleteAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}

	var invoiceCount int64
	database.DB.Model(&models.Invoice{}).Where("appointment_id = ?", appointment.ID).Count(&invoiceCount)
	if invoiceCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Appointment has an invoice; delete the invoice first"})
	}

	if err := database.DB.Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete appointment"})
	}

	websocket.Notify("cancelled", appointment)
	return c.JSON(fiber.Map{"message": "Appointment deleted"})
}
