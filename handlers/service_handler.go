package handlers

import (
	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/ledger"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateServiceRequest struct {
	PatientID   string  `json:"patient_id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
	Cost        float64 `json:"cost" validate:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed"`
}

// CreateService records a new course of treatment and opens its unpaid
// payment in the same transaction, so every service is billable immediately.
func CreateService(c *fiber.Ctx) error {
	var req CreateServiceRequest
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

	var service models.Service
	var payment *models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		service = models.Service{
			PatientID:   patientID,
			Name:        req.Name,
			Description: req.Description,
			Cost:        req.Cost,
		}
		if err := tx.Create(&service).Error; err != nil {
			return err
		}

		var err error
		payment, err = ledger.New(tx).CreatePayment(service.ID, service.Cost, req.Description)
		return err
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create service"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"service": service,
		"payment": payment,
	})
}

func GetServices(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Service{}).Preload("Patient")
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var services []models.Service
	if err := query.Order("created_at desc").Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch services"})
	}
	return c.JSON(services)
}

func GetService(c *fiber.Ctx) error {
	var service models.Service
	err := database.DB.
		Preload("Patient").
		Preload("Appointments").
		First(&service, "id = ?", c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, "service_id = ?", service.ID).Error; err == nil {
		return c.JSON(fiber.Map{"service": service, "payment": payment})
	}
	return c.JSON(fiber.Map{"service": service})
}

func UpdateService(c *fiber.Ctx) error {
	var service models.Service
	if err := database.DB.First(&service, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var req UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.Status != nil {
		service.Status = *req.Status
	}
	if err := database.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update service"})
	}
	return c.JSON(service)
}

func DeleteService(c *fiber.Ctx) error {
	var service models.Service
	if err := database.DB.First(&service, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var appointmentCount int64
	database.DB.Model(&models.Appointment{}).Where("service_id = ?", service.ID).Count(&appointmentCount)
	if appointmentCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Service has appointments; cancel them first"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "service_id = ?", service.ID).Error; err == nil {
			if err := ledger.New(tx).DeletePayment(payment.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&service).Error
	})
	if err != nil {
		if lerr, ok := ledger.AsError(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": lerr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete service"})
	}
	return c.JSON(fiber.Map{"message": "Service deleted"})
}
