package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Prescription struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PatientID     uuid.UUID  `gorm:"not null" json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Medication    string     `gorm:"size:255;not null" json:"medication"`
	Dosage        string     `gorm:"size:100;not null" json:"dosage"`
	Instructions  *string    `gorm:"type:text" json:"instructions"`

	Patient Patient `gorm:"foreignkey:PatientID" json:"patient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
