package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lab struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	PhoneNumber *string   `gorm:"size:30" json:"phone_number"`
	Email       *string   `gorm:"size:255" json:"email"`
	Address     *string   `gorm:"type:text" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lab) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
