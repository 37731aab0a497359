package handlers

import (
	"time"

	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LabRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
}

type CreateLabOrderRequest struct {
	LabID       string   `json:"lab_id" validate:"required,uuid"`
	PatientID   string   `json:"patient_id" validate:"required,uuid"`
	Description string   `json:"description" validate:"required"`
	Cost        *float64 `json:"cost,omitempty" validate:"omitempty,gt=0"`
	DueDate     *string  `json:"due_date,omitempty"`
}

type UpdateLabOrderRequest struct {
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=sent received delivered"`
	Cost        *float64 `json:"cost,omitempty" validate:"omitempty,gt=0"`
	DueDate     *string  `json:"due_date,omitempty"`
}

func CreateLab(c *fiber.Ctx) error {
	var req LabRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lab := models.Lab{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
	}
	if err := database.DB.Create(&lab).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lab"})
	}
	return c.Status(fiber.StatusCreated).JSON(lab)
}

func GetLabs(c *fiber.Ctx) error {
	var labs []models.Lab
	if err := database.DB.Order("name asc").Find(&labs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch labs"})
	}
	return c.JSON(labs)
}

func UpdateLab(c *fiber.Ctx) error {
	var lab models.Lab
	if err := database.DB.First(&lab, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
	}

	var req LabRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lab.Name = req.Name
	lab.PhoneNumber = req.PhoneNumber
	lab.Email = req.Email
	lab.Address = req.Address
	if err := database.DB.Save(&lab).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update lab"})
	}
	return c.JSON(lab)
}

func DeleteLab(c *fiber.Ctx) error {
	var lab models.Lab
	if err := database.DB.First(&lab, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
	}

	var orderCount int64
	database.DB.Model(&models.LabOrder{}).Where("lab_id = ?", lab.ID).Count(&orderCount)
	if orderCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lab has orders on record; delete them first"})
	}

	if err := database.DB.Delete(&lab).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete lab"})
	}
	return c.JSON(fiber.Map{"message": "Lab deleted"})
}

func CreateLabOrder(c *fiber.Ctx) error {
	var req CreateLabOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	labID, _ := uuid.Parse(req.LabID)
	patientID, _ := uuid.Parse(req.PatientID)

	var lab models.Lab
	if err := database.DB.First(&lab, "id = ?", labID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
	}
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	order := models.LabOrder{
		LabID:       labID,
		PatientID:   patientID,
		Description: req.Description,
		Cost:        req.Cost,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "due_date must be YYYY-MM-DD"})
		}
		order.DueDate = &dueDate
	}

	if err := database.DB.Create(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lab order"})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetLabOrders lists lab orders; ?overdue=true narrows to undelivered orders
// past their due date.
func GetLabOrders(c *fiber.Ctx) error {
	query := database.DB.Model(&models.LabOrder{}).Preload("Lab").Preload("Patient")
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("overdue") == "true" {
		query = query.Where("status <> ? AND due_date < ?", "delivered", time.Now())
	}

	var orders []models.LabOrder
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch lab orders"})
	}
	return c.JSON(orders)
}

func UpdateLabOrder(c *fiber.Ctx) error {
	var order models.LabOrder
	if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab order not found"})
	}

	var req UpdateLabOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.Cost != nil {
		order.Cost = req.Cost
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "due_date must be YYYY-MM-DD"})
		}
		order.DueDate = &dueDate
	}

	if err := database.DB.Save(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update lab order"})
	}
	return c.JSON(order)
}

func DeleteLabOrder(c *fiber.Ctx) error {
	var order models.LabOrder
	if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab order not found"})
	}
	if err := database.DB.Delete(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete lab order"})
	}
	return c.JSON(fiber.Map{"message": "Lab order deleted"})
}
