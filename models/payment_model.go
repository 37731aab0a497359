package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusUnpaid        = "unpaid"
	PaymentStatusPartiallyPaid = "partially_paid"
	PaymentStatusCompleted     = "completed"
)

// Payment is the fixed-total billing record for one service. PaidAmount and
// Status are derived from the invoice rows and are never set directly by
// callers; the ledger package recomputes them on every invoice mutation.
type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID   uuid.UUID `gorm:"not null;unique" json:"service_id"`
	TotalAmount float64   `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	PaidAmount  float64   `gorm:"type:numeric(10,2);not null;default:0" json:"paid_amount"`
	Status      string    `gorm:"size:20;not null;default:'unpaid'" json:"status"`
	Description *string   `gorm:"type:text" json:"description"`

	Service  Service   `gorm:"foreignkey:ServiceID" json:"service,omitempty"`
	Invoices []Invoice `gorm:"foreignkey:PaymentID" json:"invoices,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) RemainingAmount() float64 {
	return p.TotalAmount - p.PaidAmount
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
