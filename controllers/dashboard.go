package controllers

import (
	"net/http"
	"time"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/services"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers     int                  `json:"totalCustomers"`
	MonthlyRevenue     float64              `json:"monthlyRevenue"`
	TotalBills         int                  `json:"totalBills"`
	UpcomingBirthdays  int                  `json:"upcomingBirthdays"`
	LowStockProducts   int                  `json:"lowStockProducts"`
	TodaysAppointments []models.Appointment `json:"todaysAppointments"`
	StaffPresentToday  int                  `json:"staffPresentToday"`
}

func GetDashboardOverview(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	now := time.Now()
	today := utils.BeginningOfDay(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("salon_id = ?", salonID).Count(&totalCustomers)

	var monthlyRevenue float64
	config.DB.Model(&models.Bill{}).
		Where("salon_id = ? AND bill_date >= ?", salonID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthlyRevenue)

	var totalBills int64
	config.DB.Model(&models.Bill{}).Where("salon_id = ?", salonID).Count(&totalBills)

	// Birthdays in the next 7 days, ignoring the year part
	end := now.AddDate(0, 0, 7)
	cond, args := services.DateWindowCondition("birthday", now, end)
	var birthdayCount int64
	config.DB.Model(&models.Customer{}).
		Where("salon_id = ? AND is_active = true AND birthday IS NOT NULL", salonID).
		Where(cond, args...).
		Count(&birthdayCount)

	var lowStock int64
	config.DB.Model(&models.Product{}).
		Where("salon_id = ? AND is_active = true AND stock_qty <= reorder_level", salonID).
		Count(&lowStock)

	var appointments []models.Appointment
	if err := config.DB.Preload("Customer").Preload("Staff").Preload("Service").
		Where("salon_id = ? AND starts_at >= ? AND starts_at < ?", salonID, today, today.AddDate(0, 0, 1)).
		Where("status IN ?", []string{models.AppointmentScheduled, models.AppointmentConfirmed}).
		Order("starts_at").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	var presentToday int64
	config.DB.Model(&models.Attendance{}).
		Where("salon_id = ? AND date = ? AND status = 'present'", salonID, today).
		Count(&presentToday)

	overview := DashboardOverview{
		TotalCustomers:     int(totalCustomers),
		MonthlyRevenue:     monthlyRevenue,
		TotalBills:         int(totalBills),
		UpcomingBirthdays:  int(birthdayCount),
		LowStockProducts:   int(lowStock),
		TodaysAppointments: appointments,
		StaffPresentToday:  int(presentToday),
	}

	c.JSON(http.StatusOK, overview)
}
