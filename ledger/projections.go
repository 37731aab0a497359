package ledger

import (
	"time"

	"github.com/brightsmile/dental_clinic/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func sumInvoiced(tx *gorm.DB, paymentID uuid.UUID, excluding *uuid.UUID) (float64, error) {
	q := tx.Model(&models.Invoice{}).Where("payment_id = ?", paymentID)
	if excluding != nil {
		q = q.Where("id <> ?", *excluding)
	}

	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return round2(total), nil
}

// SumInvoiced reports how much has been invoiced against a payment,
// optionally excluding one invoice (used when re-validating an edit).
func (l *Ledger) SumInvoiced(paymentID uuid.UUID, excluding *uuid.UUID) (float64, error) {
	return sumInvoiced(l.db, paymentID, excluding)
}

// PaymentDetail loads a payment together with its invoices and a snapshot
// carrying the remaining amount, for the GET /payments/:id view.
func (l *Ledger) PaymentDetail(paymentID uuid.UUID) (*models.Payment, PaymentSnapshot, error) {
	var payment models.Payment
	err := l.db.Preload("Service").Preload("Service.Patient").Preload("Invoices").First(&payment, "id = ?", paymentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, PaymentSnapshot{}, notFound("payment not found")
		}
		return nil, PaymentSnapshot{}, err
	}
	return &payment, snapshot(&payment), nil
}

// RevenueSince sums invoice amounts created at or after t. Dashboard only; no
// invariant attached.
func (l *Ledger) RevenueSince(t time.Time) (float64, error) {
	var total float64
	err := l.db.Model(&models.Invoice{}).
		Where("created_at >= ?", t).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return round2(total), nil
}

// OutstandingBalance sums the uninvoiced remainder across all open payments.
func (l *Ledger) OutstandingBalance() (float64, error) {
	var total float64
	err := l.db.Model(&models.Payment{}).
		Where("status <> ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return round2(total), nil
}

// OutstandingPayments lists payments with an unpaid remainder, oldest first,
// with the service and patient preloaded for the balance digest email.
func (l *Ledger) OutstandingPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.Preload("Service").Preload("Service.Patient").
		Where("status <> ?", models.PaymentStatusCompleted).
		Order("created_at asc").
		Find(&payments).Error
	return payments, err
}
