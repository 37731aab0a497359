package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/brightsmile/dental_clinic/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) (*gorm.DB, *Ledger) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Patient{},
		&models.Service{},
		&models.Appointment{},
		&models.Payment{},
		&models.Invoice{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, New(db)
}

func seedService(t *testing.T, db *gorm.DB, cost float64) models.Service {
	t.Helper()

	patient := models.Patient{FullName: "Jane Doe", PhoneNumber: "0700000001"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	service := models.Service{PatientID: patient.ID, Name: "Root canal", Cost: cost}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	return service
}

func seedAppointment(t *testing.T, db *gorm.DB, service models.Service) models.Appointment {
	t.Helper()

	start := time.Now().Add(24 * time.Hour)
	appointment := models.Appointment{
		PatientID: service.PatientID,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return appointment
}

func requireKind(t *testing.T, err error, kind string) *Error {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	lerr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected ledger error, got %T: %v", err, err)
	}
	if lerr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%s)", kind, lerr.Kind, lerr.Message)
	}
	return lerr
}

func reloadPayment(t *testing.T, db *gorm.DB, payment *models.Payment) models.Payment {
	t.Helper()

	var fresh models.Payment
	if err := db.First(&fresh, "id = ?", payment.ID).Error; err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	return fresh
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		paid     float64
		total    float64
		expected string
	}{
		{"nothing paid", 0, 1000, models.PaymentStatusUnpaid},
		{"partial", 400, 1000, models.PaymentStatusPartiallyPaid},
		{"exact", 1000, 1000, models.PaymentStatusCompleted},
		{"overpaid", 1200, 1000, models.PaymentStatusCompleted},
		{"one cent short", 999.99, 1000, models.PaymentStatusPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeriveStatus(tt.paid, tt.total)
			if result != tt.expected {
				t.Errorf("DeriveStatus(%v, %v) = %q; want %q", tt.paid, tt.total, result, tt.expected)
			}
		})
	}
}

func TestCreatePaymentRejectsNonPositiveTotal(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)

	_, err := lgr.CreatePayment(service.ID, -5, nil)
	requireKind(t, err, KindInvalidArgument)

	_, err = lgr.CreatePayment(service.ID, 0, nil)
	requireKind(t, err, KindInvalidArgument)

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no payment rows persisted, found %d", count)
	}
}

func TestCreatePaymentUnknownService(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	db.Delete(&service)

	_, err := lgr.CreatePayment(service.ID, 1000, nil)
	requireKind(t, err, KindNotFound)
}

func TestCreatePaymentOnePerService(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)

	payment, err := lgr.CreatePayment(service.ID, 1000, nil)
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if payment.Status != models.PaymentStatusUnpaid || payment.PaidAmount != 0 {
		t.Errorf("new payment should be unpaid with zero paid, got %s / %v", payment.Status, payment.PaidAmount)
	}

	_, err = lgr.CreatePayment(service.ID, 500, nil)
	requireKind(t, err, KindConflict)
}

func TestInvoiceLifecycle(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, err := lgr.CreatePayment(service.ID, 1000, nil)
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	// First invoice of 400 takes the payment to partially_paid.
	first, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)
	if err != nil {
		t.Fatalf("first invoice failed: %v", err)
	}
	if first.Payment.PaidAmount != 400 {
		t.Errorf("paid_amount = %v; want 400", first.Payment.PaidAmount)
	}
	if first.Payment.Status != models.PaymentStatusPartiallyPaid {
		t.Errorf("status = %s; want partially_paid", first.Payment.Status)
	}
	if first.Payment.RemainingAmount != 600 {
		t.Errorf("remaining = %v; want 600", first.Payment.RemainingAmount)
	}
	if first.Invoice.InvoiceNumber == "" {
		t.Error("invoice number should be generated")
	}

	// Second invoice of 600 completes the payment.
	second, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 600, nil)
	if err != nil {
		t.Fatalf("second invoice failed: %v", err)
	}
	if second.Payment.PaidAmount != 1000 {
		t.Errorf("paid_amount = %v; want 1000", second.Payment.PaidAmount)
	}
	if second.Payment.Status != models.PaymentStatusCompleted {
		t.Errorf("status = %s; want completed", second.Payment.Status)
	}
	if second.Payment.RemainingAmount != 0 {
		t.Errorf("remaining = %v; want 0", second.Payment.RemainingAmount)
	}

	// A third invoice of even 1 must be rejected and leave the payment alone.
	_, err = lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 1, nil)
	lerr := requireKind(t, err, KindExceedsTotal)
	if lerr.Details["remaining_to_invoice"] != 0.0 {
		t.Errorf("remaining_to_invoice = %v; want 0", lerr.Details["remaining_to_invoice"])
	}
	if lerr.Details["payment_total"] != 1000.0 {
		t.Errorf("payment_total = %v; want 1000", lerr.Details["payment_total"])
	}

	fresh := reloadPayment(t, db, payment)
	if fresh.PaidAmount != 1000 || fresh.Status != models.PaymentStatusCompleted {
		t.Errorf("rejected invoice mutated payment: paid=%v status=%s", fresh.PaidAmount, fresh.Status)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)
	appointment := seedAppointment(t, db, service)

	_, err := lgr.CreateInvoice(payment.ID, appointment.ID, -10, nil)
	requireKind(t, err, KindInvalidArgument)

	otherService := seedService(t, db, 500)
	otherAppointment := seedAppointment(t, db, otherService)
	_, err = lgr.CreateInvoice(payment.ID, otherAppointment.ID, 100, nil)
	requireKind(t, err, KindInvalidArgument)

	if _, err := lgr.CreateInvoice(payment.ID, appointment.ID, 100, nil); err != nil {
		t.Fatalf("valid invoice failed: %v", err)
	}
	_, err = lgr.CreateInvoice(payment.ID, appointment.ID, 100, nil)
	requireKind(t, err, KindConflict)
}

func TestCreateInvoiceUnknownEntities(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)
	appointment := seedAppointment(t, db, service)

	db.Delete(&models.Appointment{}, "id = ?", appointment.ID)
	_, err := lgr.CreateInvoice(payment.ID, appointment.ID, 100, nil)
	requireKind(t, err, KindNotFound)

	db.Delete(&models.Payment{}, "id = ?", payment.ID)
	_, err = lgr.CreateInvoice(payment.ID, appointment.ID, 100, nil)
	requireKind(t, err, KindNotFound)
}

func TestDeleteInvoiceResetsPayment(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)

	result, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	snapshot, err := lgr.DeleteInvoice(result.Invoice.ID)
	if err != nil {
		t.Fatalf("delete invoice failed: %v", err)
	}
	if snapshot.PaidAmount != 0 || snapshot.Status != models.PaymentStatusUnpaid {
		t.Errorf("after deleting last invoice: paid=%v status=%s; want 0/unpaid", snapshot.PaidAmount, snapshot.Status)
	}

	fresh := reloadPayment(t, db, payment)
	if fresh.PaidAmount != 0 || fresh.Status != models.PaymentStatusUnpaid {
		t.Errorf("persisted payment: paid=%v status=%s; want 0/unpaid", fresh.PaidAmount, fresh.Status)
	}

	_, err = lgr.DeleteInvoice(result.Invoice.ID)
	requireKind(t, err, KindNotFound)
}

func TestDeleteInvoicePartialRemainder(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)

	first, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)
	if _, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 600, nil); err != nil {
		t.Fatalf("second invoice failed: %v", err)
	}

	snapshot, err := lgr.DeleteInvoice(first.Invoice.ID)
	if err != nil {
		t.Fatalf("delete invoice failed: %v", err)
	}
	if snapshot.PaidAmount != 600 || snapshot.Status != models.PaymentStatusPartiallyPaid {
		t.Errorf("paid=%v status=%s; want 600/partially_paid", snapshot.PaidAmount, snapshot.Status)
	}
}

func TestUpdateInvoiceCeilingExcludesOwnContribution(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)

	first, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)
	if _, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 600, nil); err != nil {
		t.Fatalf("second invoice failed: %v", err)
	}

	// 600 from the other invoice + 1000 requested > 1000 total.
	amount := 1000.0
	_, err := lgr.UpdateInvoice(first.Invoice.ID, UpdateInvoiceRequest{Amount: &amount})
	lerr := requireKind(t, err, KindExceedsTotal)
	if lerr.Details["available_for_this_invoice"] != 400.0 {
		t.Errorf("available_for_this_invoice = %v; want 400", lerr.Details["available_for_this_invoice"])
	}

	// Growing within the leftover room is fine, and the payment is resummed.
	amount = 400
	result, err := lgr.UpdateInvoice(first.Invoice.ID, UpdateInvoiceRequest{Amount: &amount})
	if err != nil {
		t.Fatalf("update invoice failed: %v", err)
	}
	if result.Payment.PaidAmount != 1000 || result.Payment.Status != models.PaymentStatusCompleted {
		t.Errorf("paid=%v status=%s; want 1000/completed", result.Payment.PaidAmount, result.Payment.Status)
	}
}

func TestUpdateInvoiceAmountRecomputes(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)
	result, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)

	amount := 150.0
	updated, err := lgr.UpdateInvoice(result.Invoice.ID, UpdateInvoiceRequest{Amount: &amount})
	if err != nil {
		t.Fatalf("update invoice failed: %v", err)
	}
	if updated.Invoice.Amount != 150 {
		t.Errorf("invoice amount = %v; want 150", updated.Invoice.Amount)
	}
	if updated.Payment.PaidAmount != 150 || updated.Payment.Status != models.PaymentStatusPartiallyPaid {
		t.Errorf("paid=%v status=%s; want 150/partially_paid", updated.Payment.PaidAmount, updated.Payment.Status)
	}

	zero := 0.0
	_, err = lgr.UpdateInvoice(result.Invoice.ID, UpdateInvoiceRequest{Amount: &zero})
	requireKind(t, err, KindInvalidArgument)
}

func TestUpdatePaymentTotal(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)
	if _, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 1000, nil); err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	bad := -1.0
	_, err := lgr.UpdatePayment(payment.ID, UpdatePaymentRequest{TotalAmount: &bad})
	requireKind(t, err, KindInvalidArgument)

	belowPaid := 500.0
	_, err = lgr.UpdatePayment(payment.ID, UpdatePaymentRequest{TotalAmount: &belowPaid})
	requireKind(t, err, KindExceedsTotal)

	// Raising the total reopens a completed payment.
	raised := 1500.0
	updated, err := lgr.UpdatePayment(payment.ID, UpdatePaymentRequest{TotalAmount: &raised})
	if err != nil {
		t.Fatalf("update payment failed: %v", err)
	}
	if updated.Status != models.PaymentStatusPartiallyPaid {
		t.Errorf("status = %s; want partially_paid after raising total", updated.Status)
	}
	if updated.PaidAmount != 1000 {
		t.Errorf("paid_amount = %v; want 1000 unchanged", updated.PaidAmount)
	}

	fresh := reloadPayment(t, db, payment)
	if fresh.TotalAmount != 1500 || fresh.Status != models.PaymentStatusPartiallyPaid {
		t.Errorf("persisted total=%v status=%s; want 1500/partially_paid", fresh.TotalAmount, fresh.Status)
	}
}

func TestDeletePaymentBlockedByInvoices(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)
	result, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil)

	err := lgr.DeletePayment(payment.ID)
	requireKind(t, err, KindConflict)

	if _, err := lgr.DeleteInvoice(result.Invoice.ID); err != nil {
		t.Fatalf("delete invoice failed: %v", err)
	}
	if err := lgr.DeletePayment(payment.ID); err != nil {
		t.Fatalf("delete payment failed: %v", err)
	}

	err = lgr.DeletePayment(payment.ID)
	requireKind(t, err, KindNotFound)
}

// The sum law: after any sequence of mutations, paid_amount matches a fresh
// SUM over the invoice rows.
func TestSumLawAfterMixedOperations(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)

	first, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 250.50, nil)
	second, _ := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 100.25, nil)

	amount := 300.75
	if _, err := lgr.UpdateInvoice(first.Invoice.ID, UpdateInvoiceRequest{Amount: &amount}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := lgr.DeleteInvoice(second.Invoice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	invoiced, err := lgr.SumInvoiced(payment.ID, nil)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	fresh := reloadPayment(t, db, payment)
	if fresh.PaidAmount != invoiced {
		t.Errorf("paid_amount %v != sum of invoices %v", fresh.PaidAmount, invoiced)
	}
	if fresh.PaidAmount != 300.75 {
		t.Errorf("paid_amount = %v; want 300.75", fresh.PaidAmount)
	}
	if got := DeriveStatus(fresh.PaidAmount, fresh.TotalAmount); fresh.Status != got {
		t.Errorf("status %s does not match derivation %s", fresh.Status, got)
	}
}

func TestPaymentDetailAndProjections(t *testing.T) {
	db, lgr := setupLedger(t)
	service := seedService(t, db, 1000)
	payment, _ := lgr.CreatePayment(service.ID, 1000, nil)

	if _, err := lgr.CreateInvoice(payment.ID, seedAppointment(t, db, service).ID, 400, nil); err != nil {
		t.Fatalf("invoice failed: %v", err)
	}

	detail, summary, err := lgr.PaymentDetail(payment.ID)
	if err != nil {
		t.Fatalf("payment detail failed: %v", err)
	}
	if len(detail.Invoices) != 1 {
		t.Errorf("invoice count = %d; want 1", len(detail.Invoices))
	}
	if summary.RemainingAmount != 600 {
		t.Errorf("remaining = %v; want 600", summary.RemainingAmount)
	}

	revenue, err := lgr.RevenueSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("revenue failed: %v", err)
	}
	if revenue != 400 {
		t.Errorf("revenue = %v; want 400", revenue)
	}

	outstanding, err := lgr.OutstandingBalance()
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if outstanding != 600 {
		t.Errorf("outstanding = %v; want 600", outstanding)
	}
}
