package routes

import (
	"github.com/brightsmile/dental_clinic/handlers"
	"github.com/brightsmile/dental_clinic/middleware"
	"github.com/gofiber/fiber/v2"
)

func BillingRoutes(app *fiber.App, h *handlers.BillingHandler) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("", h.CreatePayment)
	payments.Get("/:id", h.GetPayment)
	payments.Get("/:id/receipt", h.GetPaymentReceipt)
	payments.Put("/:id", h.UpdatePayment)
	payments.Delete("/:id", middleware.AdminRequired(), h.DeletePayment)

	invoices := api.Group("/invoices", middleware.Protected())
	invoices.Post("", h.CreateInvoice)
	invoices.Put("/:id", h.UpdateInvoice)
	invoices.Delete("/:id", h.DeleteInvoice)
}
