package ledger

import (
	"github.com/brightsmile/dental_clinic/models"
	"github.com/brightsmile/dental_clinic/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceResult pairs the affected invoice with the recomputed payment state.
type InvoiceResult struct {
	Invoice models.Invoice  `json:"invoice"`
	Payment PaymentSnapshot `json:"payment_update"`
}

// CreateInvoice charges an appointment against its service's payment. All
// validation happens before the insert; the payment state is then recomputed
// from the invoice rows, never incremented blindly.
func (l *Ledger) CreateInvoice(paymentID, appointmentID uuid.UUID, amount float64, description *string) (*InvoiceResult, error) {
	if amount <= 0 {
		return nil, invalidArgument("amount must be greater than zero")
	}
	amount = round2(amount)

	var result InvoiceResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		payment, err := lockedPayment(tx, paymentID)
		if err != nil {
			return err
		}

		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("appointment not found")
			}
			return err
		}
		if appointment.ServiceID != payment.ServiceID {
			return invalidArgument("appointment does not belong to the service this payment covers")
		}

		var existing int64
		if err := tx.Model(&models.Invoice{}).Where("appointment_id = ?", appointmentID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return conflict("an invoice already exists for this appointment")
		}

		currentInvoiced, err := sumInvoiced(tx, payment.ID, nil)
		if err != nil {
			return err
		}
		if round2(currentInvoiced+amount) > payment.TotalAmount {
			return exceedsTotal("invoice would exceed the payment's total amount", map[string]interface{}{
				"payment_total":        payment.TotalAmount,
				"current_invoiced":     currentInvoiced,
				"remaining_to_invoice": round2(payment.TotalAmount - currentInvoiced),
				"requested_amount":     amount,
			})
		}

		number, err := utils.GenerateInvoiceNumber(tx)
		if err != nil {
			return err
		}
		invoice := models.Invoice{
			InvoiceNumber: number,
			PaymentID:     payment.ID,
			AppointmentID: appointmentID,
			Amount:        amount,
			Description:   description,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		if err := writePaymentState(tx, payment, currentInvoiced+amount); err != nil {
			return err
		}
		result = InvoiceResult{Invoice: invoice, Payment: snapshot(payment)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type UpdateInvoiceRequest struct {
	Amount      *float64
	Description *string
}

// UpdateInvoice edits an invoice's amount or description. A new amount is
// checked against the ceiling excluding this invoice's own prior
// contribution, then the payment is recomputed from a full resum.
func (l *Ledger) UpdateInvoice(invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResult, error) {
	var result InvoiceResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("invoice not found")
			}
			return err
		}

		payment, err := lockedPayment(tx, invoice.PaymentID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Amount != nil {
			newAmount := round2(*req.Amount)
			if newAmount <= 0 {
				return invalidArgument("amount must be greater than zero")
			}
			otherInvoicesTotal, err := sumInvoiced(tx, payment.ID, &invoice.ID)
			if err != nil {
				return err
			}
			if round2(otherInvoicesTotal+newAmount) > payment.TotalAmount {
				return exceedsTotal("invoice would exceed the payment's total amount", map[string]interface{}{
					"payment_total":              payment.TotalAmount,
					"current_invoiced":           otherInvoicesTotal,
					"available_for_this_invoice": round2(payment.TotalAmount - otherInvoicesTotal),
					"requested_amount":           newAmount,
				})
			}
			invoice.Amount = newAmount
			updates["amount"] = newAmount
		}
		if req.Description != nil {
			invoice.Description = req.Description
			updates["description"] = req.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		newPaid, err := sumInvoiced(tx, payment.ID, nil)
		if err != nil {
			return err
		}
		if err := writePaymentState(tx, payment, newPaid); err != nil {
			return err
		}
		result = InvoiceResult{Invoice: invoice, Payment: snapshot(payment)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteInvoice removes an invoice and recomputes the owning payment. When
// the last invoice goes, paid_amount is written back as an explicit zero
// rather than trusting a SUM over an empty set.
func (l *Ledger) DeleteInvoice(invoiceID uuid.UUID) (*PaymentSnapshot, error) {
	var snap PaymentSnapshot
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("invoice not found")
			}
			return err
		}

		payment, err := lockedPayment(tx, invoice.PaymentID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Invoice{}, "id = ?", invoice.ID).Error; err != nil {
			return err
		}

		var remainingCount int64
		if err := tx.Model(&models.Invoice{}).Where("payment_id = ?", payment.ID).Count(&remainingCount).Error; err != nil {
			return err
		}
		newPaid := 0.0
		if remainingCount > 0 {
			newPaid, err = sumInvoiced(tx, payment.ID, nil)
			if err != nil {
				return err
			}
		}
		if err := writePaymentState(tx, payment, newPaid); err != nil {
			return err
		}
		snap = snapshot(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
