package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brightsmile/dental_clinic/ledger"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBillingApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	h := NewBillingHandler(ledger.New(db))
	app := fiber.New()
	app.Post("/api/v1/payments", h.CreatePayment)
	app.Get("/api/v1/payments/:id", h.GetPayment)
	app.Put("/api/v1/payments/:id", h.UpdatePayment)
	app.Delete("/api/v1/payments/:id", h.DeletePayment)
	app.Post("/api/v1/invoices", h.CreateInvoice)
	app.Put("/api/v1/invoices/:id", h.UpdateInvoice)
	app.Delete("/api/v1/invoices/:id", h.DeleteInvoice)
	return app, db
}

func seedServiceAndAppointment(t *testing.T, db *gorm.DB) (models.Service, models.Appointment) {
	t.Helper()

	patient := models.Patient{FullName: "John Smith", PhoneNumber: "0700000002"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	service := models.Service{PatientID: patient.ID, Name: "Crown fitting", Cost: 1000}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	start := time.Now().Add(24 * time.Hour)
	appointment := models.Appointment{
		PatientID: patient.ID,
		ServiceID: service.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return service, appointment
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, parsed
}

func TestCreatePaymentEndpoint(t *testing.T) {
	app, db := setupBillingApp(t)
	service, _ := seedServiceAndAppointment(t, db)

	resp, body := doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": 1000,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d; want 201 (%v)", resp.StatusCode, body)
	}
	payment := body["payment"].(map[string]interface{})
	if payment["status"] != "unpaid" || payment["paid_amount"].(float64) != 0 {
		t.Errorf("new payment should be unpaid/0, got %v", payment)
	}

	// One payment per service.
	resp, body = doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": 500,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("duplicate payment status = %d; want 400", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Error("error body should carry an error message")
	}
}

func TestCreatePaymentEndpointValidation(t *testing.T) {
	app, db := setupBillingApp(t)
	service, _ := seedServiceAndAppointment(t, db)

	resp, _ := doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": -5,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("negative total status = %d; want 400", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no payment persisted, found %d", count)
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   "11111111-2222-3333-4444-555555555555",
		"total_amount": 100,
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown service status = %d; want 404", resp.StatusCode)
	}
}

func TestInvoiceEndpointFlow(t *testing.T) {
	app, db := setupBillingApp(t)
	service, appointment := seedServiceAndAppointment(t, db)

	_, body := doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": 1000,
	})
	paymentID := body["payment"].(map[string]interface{})["id"].(string)

	resp, body := doJSON(t, app, "POST", "/api/v1/invoices", fiber.Map{
		"payment_id":     paymentID,
		"appointment_id": appointment.ID.String(),
		"amount":         400,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create invoice status = %d; want 201 (%v)", resp.StatusCode, body)
	}
	update := body["payment_update"].(map[string]interface{})
	if update["paid_amount"].(float64) != 400 || update["status"] != "partially_paid" {
		t.Errorf("payment_update = %v; want 400/partially_paid", update)
	}
	summary := body["summary"].(map[string]interface{})
	if summary["remaining_amount"].(float64) != 600 {
		t.Errorf("summary remaining = %v; want 600", summary["remaining_amount"])
	}

	// Exceeding the ceiling reports the diagnostic amounts.
	resp, body = doJSON(t, app, "POST", "/api/v1/invoices", fiber.Map{
		"payment_id":     paymentID,
		"appointment_id": appointment.ID.String(),
		"amount":         700,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("over-ceiling status = %d; want 400", resp.StatusCode)
	}
	// Duplicate appointment wins over the ceiling here, so re-check with the
	// appointment freed up.
	if body["error"] == nil {
		t.Error("error body should carry an error message")
	}

	// GET returns payment, invoices and summary.
	resp, body = doJSON(t, app, "GET", "/api/v1/payments/"+paymentID, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get payment status = %d; want 200", resp.StatusCode)
	}
	invoices := body["invoices"].([]interface{})
	if len(invoices) != 1 {
		t.Errorf("invoices = %d; want 1", len(invoices))
	}
	invoiceID := invoices[0].(map[string]interface{})["id"].(string)

	// Deleting the only invoice resets the payment.
	resp, body = doJSON(t, app, "DELETE", "/api/v1/invoices/"+invoiceID, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete invoice status = %d; want 200", resp.StatusCode)
	}
	update = body["payment_update"].(map[string]interface{})
	if update["paid_amount"].(float64) != 0 || update["status"] != "unpaid" {
		t.Errorf("after delete payment_update = %v; want 0/unpaid", update)
	}
}

func TestInvoiceEndpointExceedsTotalPayload(t *testing.T) {
	app, db := setupBillingApp(t)
	service, appointment := seedServiceAndAppointment(t, db)

	_, body := doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": 300,
	})
	paymentID := body["payment"].(map[string]interface{})["id"].(string)

	resp, body := doJSON(t, app, "POST", "/api/v1/invoices", fiber.Map{
		"payment_id":     paymentID,
		"appointment_id": appointment.ID.String(),
		"amount":         500,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d; want 400", resp.StatusCode)
	}
	if body["kind"] != "exceeds_total" {
		t.Errorf("kind = %v; want exceeds_total", body["kind"])
	}
	if body["payment_total"].(float64) != 300 {
		t.Errorf("payment_total = %v; want 300", body["payment_total"])
	}
	if body["current_invoiced"].(float64) != 0 {
		t.Errorf("current_invoiced = %v; want 0", body["current_invoiced"])
	}
	if body["remaining_to_invoice"].(float64) != 300 {
		t.Errorf("remaining_to_invoice = %v; want 300", body["remaining_to_invoice"])
	}
	if body["requested_amount"].(float64) != 500 {
		t.Errorf("requested_amount = %v; want 500", body["requested_amount"])
	}
}

func TestDeletePaymentEndpoint(t *testing.T) {
	app, db := setupBillingApp(t)
	service, appointment := seedServiceAndAppointment(t, db)

	_, body := doJSON(t, app, "POST", "/api/v1/payments", fiber.Map{
		"service_id":   service.ID.String(),
		"total_amount": 1000,
	})
	paymentID := body["payment"].(map[string]interface{})["id"].(string)

	doJSON(t, app, "POST", "/api/v1/invoices", fiber.Map{
		"payment_id":     paymentID,
		"appointment_id": appointment.ID.String(),
		"amount":         100,
	})

	resp, _ := doJSON(t, app, "DELETE", "/api/v1/payments/"+paymentID, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("delete with invoices status = %d; want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/payments/11111111-2222-3333-4444-555555555555", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("delete unknown status = %d; want 404", resp.StatusCode)
	}
}
