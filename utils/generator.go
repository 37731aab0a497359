package utils

import (
	"math/rand"
	"time"

	"github.com/brightsmile/dental_clinic/models"
	"gorm.io/gorm"
)

const invoiceNumberDigits = 8
const digitBytes = "0123456789"

// GenerateInvoiceNumber produces a unique human-facing number like
// INV-20481632, retrying until it does not collide with an existing invoice.
func GenerateInvoiceNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, invoiceNumberDigits)
		for i := range b {
			b[i] = digitBytes[seededRand.Intn(len(digitBytes))]
		}
		number := "INV-" + string(b)

		var invoice models.Invoice
		err := tx.Where("invoice_number = ?", number).First(&invoice).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
