package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/services"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAppointmentInput struct {
	CustomerID uuid.UUID  `json:"customerId" binding:"required"`
	StaffID    uuid.UUID  `json:"staffId" binding:"required"`
	ServiceID  uuid.UUID  `json:"serviceId" binding:"required"`
	StartsAt   time.Time  `json:"startsAt" binding:"required"`
	EndsAt     *time.Time `json:"endsAt"` // defaults to start + service duration
	Notes      string     `json:"notes"`
}

type UpdateAppointmentInput struct {
	CustomerID *uuid.UUID `json:"customerId"`
	StaffID    *uuid.UUID `json:"staffId"`
	ServiceID  *uuid.UUID `json:"serviceId"`
	StartsAt   *time.Time `json:"startsAt"`
	EndsAt     *time.Time `json:"endsAt"`
	Notes      *string    `json:"notes"`
}

type UpdateAppointmentStatusInput struct {
	Status string `json:"status" binding:"required,oneof=scheduled confirmed completed cancelled no_show"`
}

// CreateAppointment books a slot after checking the staff member is free.
func CreateAppointment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, input.CustomerID).
		First(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		return
	}

	var staff models.User
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, input.StaffID).
		First(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Staff member not found")
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, input.ServiceID).
		First(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Service not found")
		return
	}

	endsAt := input.StartsAt.Add(time.Duration(service.Duration) * time.Minute)
	if input.EndsAt != nil {
		endsAt = *input.EndsAt
	}
	if !endsAt.After(input.StartsAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment must end after it starts")
		return
	}

	conflict, err := staffHasConflict(salonID, input.StaffID, uuid.Nil, input.StartsAt, endsAt)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if conflict {
		utils.RespondWithError(c, http.StatusConflict, "Staff member already has an appointment in this slot")
		return
	}

	appointment := models.Appointment{
		SalonID:    salonID,
		CustomerID: input.CustomerID,
		StaffID:    input.StaffID,
		ServiceID:  input.ServiceID,
		StartsAt:   input.StartsAt,
		EndsAt:     endsAt,
		Status:     models.AppointmentScheduled,
		Notes:      input.Notes,
	}
	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists appointments, optionally filtered by day or staff.
func GetAppointments(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Customer").Preload("Staff").Preload("Service").
		Where("salon_id = ?", salonID)

	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("starts_at >= ? AND starts_at < ?", day, day.AddDate(0, 0, 1))
	}
	if staffID := c.Query("staffId"); staffID != "" {
		id, err := uuid.Parse(staffID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staffId format")
			return
		}
		query = query.Where("staff_id = ?", id)
	}

	var appointments []models.Appointment
	if err := query.Order("starts_at").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").Preload("Staff").Preload("Service").
		Where("salon_id = ? AND id = ?", salonID, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment reschedules or reassigns an appointment
func UpdateAppointment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if appointment.Status == models.AppointmentCompleted || appointment.Status == models.AppointmentCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cannot modify a "+appointment.Status+" appointment")
		return
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := config.DB.Where("salon_id = ? AND id = ?", salonID, *input.CustomerID).
			First(&customer).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			return
		}
		appointment.CustomerID = *input.CustomerID
	}
	if input.StaffID != nil {
		var staff models.User
		if err := config.DB.Where("salon_id = ? AND id = ?", salonID, *input.StaffID).
			First(&staff).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Staff member not found")
			return
		}
		appointment.StaffID = *input.StaffID
	}
	if input.ServiceID != nil {
		var service models.Service
		if err := config.DB.Where("salon_id = ? AND id = ?", salonID, *input.ServiceID).
			First(&service).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Service not found")
			return
		}
		appointment.ServiceID = *input.ServiceID
	}
	if input.StartsAt != nil {
		appointment.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		appointment.EndsAt = *input.EndsAt
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	if !appointment.EndsAt.After(appointment.StartsAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment must end after it starts")
		return
	}

	if input.StaffID != nil || input.StartsAt != nil || input.EndsAt != nil {
		conflict, err := staffHasConflict(salonID, appointment.StaffID, appointment.ID, appointment.StartsAt, appointment.EndsAt)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if conflict {
			utils.RespondWithError(c, http.StatusConflict, "Staff member already has an appointment in this slot")
			return
		}
	}

	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
func UpdateAppointmentStatus(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateAppointmentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !services.CanTransition(appointment.Status, input.Status) {
		utils.RespondWithError(c, http.StatusConflict,
			"Cannot move appointment from "+appointment.Status+" to "+input.Status)
		return
	}

	appointment.Status = input.Status
	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment removes an appointment
func DeleteAppointment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, appointmentID).
		Delete(&models.Appointment{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// staffHasConflict checks whether the staff member has a live appointment
// overlapping the given window, excluding the appointment being edited.
func staffHasConflict(salonID, staffID, excludeID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	var count int64
	query := config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND staff_id = ?", salonID, staffID).
		Where("status IN ?", []string{models.AppointmentScheduled, models.AppointmentConfirmed}).
		Where("starts_at < ? AND ends_at > ?", endsAt, startsAt)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
