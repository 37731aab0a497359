package handlers

import (
	"strconv"
	"time"

	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
)

type PatientRequest struct {
	FullName       string  `json:"full_name" validate:"required,min=2"`
	PhoneNumber    string  `json:"phone_number" validate:"required,min=7"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address        *string `json:"address,omitempty"`
	MedicalHistory *string `json:"medical_history,omitempty"`
	Allergies      *string `json:"allergies,omitempty"`
}

func applyPatientRequest(patient *models.Patient, req *PatientRequest) error {
	patient.FullName = req.FullName
	patient.PhoneNumber = req.PhoneNumber
	patient.Email = req.Email
	patient.Gender = req.Gender
	patient.Address = req.Address
	patient.MedicalHistory = req.MedicalHistory
	patient.Allergies = req.Allergies

	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return err
		}
		patient.DateOfBirth = &dob
	}
	return nil
}

func CreatePatient(c *fiber.Ctx) error {
	var req PatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var patient models.Patient
	if err := applyPatientRequest(&patient, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}
	if err := database.DB.Create(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create patient"})
	}

	return c.Status(fiber.StatusCreated).JSON(patient)
}

func GetPatients(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.Patient{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR phone_number LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count patients"})
	}

	var patients []models.Patient
	err := query.Order("full_name asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch patients"})
	}

	return c.JSON(fiber.Map{
		"patients": patients,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func GetPatient(c *fiber.Ctx) error {
	var patient models.Patient
	err := database.DB.
		Preload("Services").
		Preload("Documents").
		First(&patient, "id = ?", c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}
	return c.JSON(patient)
}

func UpdatePatient(c *fiber.Ctx) error {
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	var req PatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := applyPatientRequest(&patient, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}
	if err := database.DB.Save(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update patient"})
	}

	return c.JSON(patient)
}

func DeletePatient(c *fiber.Ctx) error {
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	var serviceCount int64
	database.DB.Model(&models.Service{}).Where("patient_id = ?", patient.ID).Count(&serviceCount)
	if serviceCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Patient has services on record; delete them first"})
	}

	if err := database.DB.Delete(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete patient"})
	}
	return c.JSON(fiber.Map{"message": "Patient deleted"})
}
