package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/brightsmile/dental_clinic/notifications"
)

// SendAppointmentReminders emails patients whose appointment starts in about
// an hour. Runs every 5 minutes; the 5-minute window keeps each appointment
// matched exactly once.
func SendAppointmentReminders() {
	log.Println("Running job: SendAppointmentReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Appointment
	err := database.DB.
		Preload("Patient").
		Preload("Service").
		Where("status = ? AND start_time BETWEEN ? AND ?", "scheduled", lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming appointments: %v", err)
		return
	}

	for _, appointment := range upcoming {
		if appointment.Patient.Email == nil {
			continue
		}
		log.Printf("Sending reminder for appointment ID: %s", appointment.ID)

		emailSubject := "Reminder: Your Dental Appointment Starts in 1 Hour"
		emailBody := fmt.Sprintf(
			"<h1>Appointment Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that your appointment (%s) is scheduled for %s.</p><p>Please arrive a few minutes early.</p>",
			appointment.Patient.FullName,
			appointment.Service.Name,
			appointment.StartTime.Format(time.Kitchen),
		)

		go notifications.SendEmail(appointment.Patient.FullName, *appointment.Patient.Email, emailSubject, emailBody)
	}
}
