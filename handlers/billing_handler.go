package handlers

import (
	"log"

	"github.com/brightsmile/dental_clinic/ledger"
	"github.com/brightsmile/dental_clinic/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BillingHandler exposes the payment/invoice ledger over REST. The ledger is
// injected so the same handler runs against postgres in production and
// in-memory sqlite in tests.
type BillingHandler struct {
	ledger *ledger.Ledger
}

func NewBillingHandler(l *ledger.Ledger) *BillingHandler {
	return &BillingHandler{ledger: l}
}

type CreatePaymentRequest struct {
	ServiceID   string  `json:"service_id" validate:"required,uuid"`
	TotalAmount float64 `json:"total_amount" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdatePaymentBody struct {
	TotalAmount *float64 `json:"total_amount,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type CreateInvoiceRequest struct {
	PaymentID     string  `json:"payment_id" validate:"required,uuid"`
	AppointmentID string  `json:"appointment_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required"`
	Description   *string `json:"description,omitempty"`
}

type UpdateInvoiceBody struct {
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// ledgerError translates the ledger's error taxonomy to HTTP. Diagnostic
// amounts (the exceeds_total case) are merged into the response body.
func ledgerError(c *fiber.Ctx, err error) error {
	lerr, ok := ledger.AsError(err)
	if !ok {
		log.Printf("🔥 Ledger operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	status := fiber.StatusBadRequest
	if lerr.Kind == ledger.KindNotFound {
		status = fiber.StatusNotFound
	}

	body := fiber.Map{"error": lerr.Message, "kind": lerr.Kind}
	for k, v := range lerr.Details {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func (h *BillingHandler) CreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	serviceID, _ := uuid.Parse(req.ServiceID)

	payment, err := h.ledger.CreatePayment(serviceID, req.TotalAmount, req.Description)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}

func (h *BillingHandler) GetPayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	payment, summary, err := h.ledger.PaymentDetail(paymentID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{
		"payment":  payment,
		"invoices": payment.Invoices,
		"summary": fiber.Map{
			"total_amount":     summary.TotalAmount,
			"paid_amount":      summary.PaidAmount,
			"remaining_amount": summary.RemainingAmount,
			"status":           summary.Status,
			"invoice_count":    len(payment.Invoices),
		},
	})
}

func (h *BillingHandler) UpdatePayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var body UpdatePaymentBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	payment, err := h.ledger.UpdatePayment(paymentID, ledger.UpdatePaymentRequest{
		TotalAmount: body.TotalAmount,
		Description: body.Description,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (h *BillingHandler) DeletePayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	if err := h.ledger.DeletePayment(paymentID); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment deleted"})
}

func (h *BillingHandler) CreateInvoice(c *fiber.Ctx) error {
	var req CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	paymentID, _ := uuid.Parse(req.PaymentID)
	appointmentID, _ := uuid.Parse(req.AppointmentID)

	result, err := h.ledger.CreateInvoice(paymentID, appointmentID, req.Amount, req.Description)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"invoice":        result.Invoice,
		"payment_update": result.Payment,
		"summary": fiber.Map{
			"total_amount":     result.Payment.TotalAmount,
			"paid_amount":      result.Payment.PaidAmount,
			"remaining_amount": result.Payment.RemainingAmount,
			"status":           result.Payment.Status,
		},
	})
}

func (h *BillingHandler) UpdateInvoice(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	var body UpdateInvoiceBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result, err := h.ledger.UpdateInvoice(invoiceID, ledger.UpdateInvoiceRequest{
		Amount:      body.Amount,
		Description: body.Description,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{
		"invoice":        result.Invoice,
		"payment_update": result.Payment,
	})
}

func (h *BillingHandler) DeleteInvoice(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID format"})
	}

	snapshot, err := h.ledger.DeleteInvoice(invoiceID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"payment_update": snapshot})
}

// GetPaymentReceipt renders the payment's receipt as a PDF.
func (h *BillingHandler) GetPaymentReceipt(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	payment, _, err := h.ledger.PaymentDetail(paymentID)
	if err != nil {
		return ledgerError(c, err)
	}

	pdfBytes, err := services.GenerateReceiptPDF(payment)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for payment %s: %v", paymentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate receipt"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "inline; filename=receipt-"+paymentID.String()+".pdf")
	return c.Send(pdfBytes)
}
