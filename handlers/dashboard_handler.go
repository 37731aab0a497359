package handlers

import (
	"time"

	"github.com/brightsmile/dental_clinic/database"
	"github.com/brightsmile/dental_clinic/ledger"
	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	ledger *ledger.Ledger
}

func NewDashboardHandler(l *ledger.Ledger) *DashboardHandler {
	return &DashboardHandler{ledger: l}
}

type DashboardStats struct {
	RevenueToday       float64 `json:"revenue_today"`
	AppointmentsToday  int64   `json:"appointments_today"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	PatientCount       int64   `json:"patient_count"`
}

const dashboardCacheKey = "dashboard:stats"
const dashboardCacheTTL = 60 * time.Second

// GetStats answers the front-desk dashboard. Aggregates are cached briefly in
// Redis since the dashboard polls and exactness-to-the-second does not matter.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()

	var stats DashboardStats
	if database.CacheGet(ctx, dashboardCacheKey, &stats) {
		return c.JSON(stats)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	revenue, err := h.ledger.RevenueSince(startOfDay)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute revenue"})
	}
	outstanding, err := h.ledger.OutstandingBalance()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute outstanding balance"})
	}

	var appointmentsToday int64
	database.DB.Model(&models.Appointment{}).
		Where("start_time >= ? AND start_time < ? AND status <> ?", startOfDay, startOfDay.Add(24*time.Hour), "cancelled").
		Count(&appointmentsToday)

	var patientCount int64
	database.DB.Model(&models.Patient{}).Count(&patientCount)

	stats = DashboardStats{
		RevenueToday:       revenue,
		AppointmentsToday:  appointmentsToday,
		OutstandingBalance: outstanding,
		PatientCount:       patientCount,
	}
	database.CacheSet(ctx, dashboardCacheKey, stats, dashboardCacheTTL)

	return c.JSON(stats)
}
