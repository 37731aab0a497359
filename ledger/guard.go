package ledger

import (
	"github.com/brightsmile/dental_clinic/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePayment opens the billing record for a service. One payment per
// service; the total is fixed here and invoices are charged against it later.
func (l *Ledger) CreatePayment(serviceID uuid.UUID, totalAmount float64, description *string) (*models.Payment, error) {
	if totalAmount <= 0 {
		return nil, invalidArgument("total_amount must be greater than zero")
	}

	var payment *models.Payment
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, "id = ?", serviceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("service not found")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Payment{}).Where("service_id = ?", serviceID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return conflict("a payment already exists for this service")
		}

		payment = &models.Payment{
			ServiceID:   serviceID,
			TotalAmount: round2(totalAmount),
			PaidAmount:  0,
			Status:      models.PaymentStatusUnpaid,
			Description: description,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

type UpdatePaymentRequest struct {
	TotalAmount *float64
	Description *string
}

// UpdatePayment changes the total or description. The total may never drop
// below what has already been invoiced, and status is re-derived against the
// new total even though paid_amount itself is untouched here.
func (l *Ledger) UpdatePayment(paymentID uuid.UUID, req UpdatePaymentRequest) (*models.Payment, error) {
	var payment *models.Payment
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = lockedPayment(tx, paymentID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.TotalAmount != nil {
			newTotal := round2(*req.TotalAmount)
			if newTotal <= 0 {
				return invalidArgument("total_amount must be greater than zero")
			}
			if newTotal < payment.PaidAmount {
				return exceedsTotal("total_amount cannot be less than the amount already invoiced", map[string]interface{}{
					"current_invoiced": payment.PaidAmount,
					"requested_total":  newTotal,
				})
			}
			payment.TotalAmount = newTotal
			updates["total_amount"] = newTotal
		}
		if req.Description != nil {
			payment.Description = req.Description
			updates["description"] = req.Description
		}

		newStatus := DeriveStatus(payment.PaidAmount, payment.TotalAmount)
		if newStatus != payment.Status {
			payment.Status = newStatus
			updates["status"] = newStatus
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// DeletePayment removes a payment that has no invoices. Payments with
// invoices are blocked; the caller must delete the invoices first.
func (l *Ledger) DeletePayment(paymentID uuid.UUID) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		payment, err := lockedPayment(tx, paymentID)
		if err != nil {
			return err
		}

		var invoiceCount int64
		if err := tx.Model(&models.Invoice{}).Where("payment_id = ?", payment.ID).Count(&invoiceCount).Error; err != nil {
			return err
		}
		if invoiceCount > 0 {
			return conflict("payment still has invoices; delete them first")
		}

		return tx.Delete(&models.Payment{}, "id = ?", payment.ID).Error
	})
}
