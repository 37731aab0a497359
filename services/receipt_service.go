package services

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/brightsmile/dental_clinic/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

type receiptData struct {
	PatientName string
	ServiceName string
	Status      string
	TotalAmount float64
	PaidAmount  float64
	Remaining   float64
	Invoices    []models.Invoice
	IssuedAt    string
}

// GenerateReceiptPDF renders the payment receipt template in headless Chrome
// and returns the PDF bytes. The caller must have preloaded the payment's
// Service (with Patient) and Invoices.
func GenerateReceiptPDF(payment *models.Payment) ([]byte, error) {
	htmlContent, err := renderReceiptHTML(payment)
	if err != nil {
		return nil, err
	}
	return printToPDF(htmlContent)
}

func renderReceiptHTML(payment *models.Payment) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := receiptData{
		PatientName: payment.Service.Patient.FullName,
		ServiceName: payment.Service.Name,
		Status:      payment.Status,
		TotalAmount: payment.TotalAmount,
		PaidAmount:  payment.PaidAmount,
		Remaining:   payment.RemainingAmount(),
		Invoices:    payment.Invoices,
		IssuedAt:    time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
