package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PatientID  uuid.UUID `gorm:"not null" json:"patient_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileURL    string    `gorm:"size:500;not null" json:"file_url"`
	Category   *string   `gorm:"size:50" json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
