package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FullName    string     `gorm:"size:255;not null" json:"full_name"`
	PhoneNumber string     `gorm:"size:30;not null" json:"phone_number"`
	Email       *string    `gorm:"size:255" json:"email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `gorm:"size:10" json:"gender"`
	Address     *string    `gorm:"type:text" json:"address"`

	MedicalHistory *string `gorm:"type:text" json:"medical_history"`
	Allergies      *string `gorm:"type:text" json:"allergies"`

	Services  []Service  `gorm:"foreignkey:PatientID" json:"services,omitempty"`
	Documents []Document `gorm:"foreignkey:PatientID" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
