package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is one course of treatment for a patient (e.g. "root canal, tooth 46").
// Creating a service also creates its unpaid Payment record.
type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PatientID   uuid.UUID `gorm:"not null" json:"patient_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Cost        float64   `gorm:"type:numeric(10,2);not null" json:"cost"`
	Status      string    `gorm:"size:20;not null;default:'planned'" json:"status"`

	Patient      Patient       `gorm:"foreignkey:PatientID" json:"patient,omitempty"`
	Appointments []Appointment `gorm:"foreignkey:ServiceID" json:"appointments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
