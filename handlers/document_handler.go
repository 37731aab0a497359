package handlers

import (
	"context"
	"fmt"
	"time"

	config "github.com/brightsmile/dental_clinic/configs"
	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// UploadDocument stores a patient file (x-ray, scan, consent form) in
// Cloudinary and records its metadata.
func UploadDocument(c *fiber.Ctx) error {
	patientID := c.Params("patientId")

	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Document file is required."})
	}

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize file storage."})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   "dental_clinic_documents",
		PublicID: fmt.Sprintf("patient_%s_%s", patientID, file.Filename),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file."})
	}

	category := c.FormValue("category")
	document := models.Document{
		PatientID:  patient.ID,
		FileName:   file.Filename,
		FileURL:    uploadResult.SecureURL,
		UploadedAt: time.Now(),
	}
	if category != "" {
		document.Category = &category
	}
	if err := database.DB.Create(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document record."})
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func GetPatientDocuments(c *fiber.Ctx) error {
	patientID := c.Params("patientId")

	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	var documents []models.Document
	database.DB.Where("patient_id = ?", patientID).Order("uploaded_at desc").Find(&documents)
	return c.JSON(documents)
}

func DeleteDocument(c *fiber.Ctx) error {
	var document models.Document
	if err := database.DB.First(&document, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	if err := database.DB.Delete(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete document"})
	}
	return c.JSON(fiber.Map{"message": "Document deleted"})
}
