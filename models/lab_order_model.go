package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LabOrder tracks work sent out to an external lab (crowns, dentures, molds).
type LabOrder struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LabID       uuid.UUID  `gorm:"not null" json:"lab_id"`
	PatientID   uuid.UUID  `gorm:"not null" json:"patient_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      string     `gorm:"size:20;not null;default:'sent'" json:"status"`
	Cost        *float64   `gorm:"type:numeric(10,2)" json:"cost"`
	DueDate     *time.Time `json:"due_date"`

	Lab     Lab     `gorm:"foreignkey:LabID" json:"lab,omitempty"`
	Patient Patient `gorm:"foreignkey:PatientID" json:"patient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *LabOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
