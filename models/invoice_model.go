package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice is a partial charge against a Payment, tied to exactly one
// appointment of the same service.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string    `gorm:"size:20;not null;unique" json:"invoice_number"`
	PaymentID     uuid.UUID `gorm:"not null" json:"payment_id"`
	AppointmentID uuid.UUID `gorm:"not null;unique" json:"appointment_id"`
	Amount        float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Description   *string   `gorm:"type:text" json:"description"`

	Payment     Payment     `gorm:"foreignkey:PaymentID" json:"payment,omitempty"`
	Appointment Appointment `gorm:"foreignkey:AppointmentID" json:"appointment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
