package jobs

import (
	"fmt"
	"log"
	"strings"

	config "github.com/brightsmile/dental_clinic/configs"
	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/ledger"
	"github.com/brightsmile/dental_clinic/notifications"
)

// SendOutstandingBalanceDigest emails the clinic admin a morning summary of
// every payment that still has an uninvoiced remainder.
func SendOutstandingBalanceDigest() {
	log.Println("Running job: SendOutstandingBalanceDigest...")

	adminEmail := config.Config("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping balance digest")
		return
	}

	lgr := ledger.New(database.DB)
	payments, err := lgr.OutstandingPayments()
	if err != nil {
		log.Printf("Error fetching outstanding payments: %v", err)
		return
	}
	if len(payments) == 0 {
		return
	}

	var rows strings.Builder
	var totalOutstanding float64
	for _, payment := range payments {
		remaining := payment.RemainingAmount()
		totalOutstanding += remaining
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f</td></tr>",
			payment.Service.Patient.FullName,
			payment.Service.Name,
			payment.TotalAmount,
			payment.PaidAmount,
			remaining,
		))
	}

	emailBody := fmt.Sprintf(
		"<h1>Outstanding Balances</h1><p>%d payments with an open balance, %.2f outstanding in total.</p>"+
			"<table border='1' cellpadding='4'><tr><th>Patient</th><th>Treatment</th><th>Total</th><th>Paid</th><th>Remaining</th></tr>%s</table>",
		len(payments), totalOutstanding, rows.String(),
	)

	notifications.SendEmail("Clinic Admin", adminEmail, "Daily Outstanding Balance Digest", emailBody)
}
