package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PatientID uuid.UUID  `gorm:"not null" json:"patient_id"`
	ServiceID uuid.UUID  `gorm:"not null" json:"service_id"`
	DentistID *uuid.UUID `json:"dentist_id"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Notes     *string   `gorm:"type:text" json:"notes"`

	Patient Patient `gorm:"foreignkey:PatientID" json:"patient,omitempty"`
	Service Service `gorm:"foreignkey:ServiceID" json:"service,omitempty"`
	Dentist *User   `gorm:"foreignkey:DentistID" json:"dentist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
