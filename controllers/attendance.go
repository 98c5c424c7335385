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

type CheckInInput struct {
	StaffID uuid.UUID `json:"staffId" binding:"required"`
	Action  string    `json:"action" binding:"required,oneof=check_in check_out"`
	Status  string    `json:"status" binding:"omitempty,oneof=present absent half_day leave"`
	Notes   string    `json:"notes"`
}

type UpdateAttendanceInput struct {
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
	Status   *string    `json:"status" binding:"omitempty,oneof=present absent half_day leave"`
	Notes    *string    `json:"notes"`
	Confirm  bool       `json:"confirm"`
}

// GetAttendance lists attendance records, by day and optionally by staff.
func GetAttendance(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Staff").Where("salon_id = ?", salonID)

	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("date = ?", day)
	}
	if staffID := c.Query("staffId"); staffID != "" {
		id, err := uuid.Parse(staffID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staffId format")
			return
		}
		query = query.Where("staff_id = ?", id)
	}

	var records []models.Attendance
	if err := query.Order("date DESC").Limit(200).Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve attendance")
		return
	}

	c.JSON(http.StatusOK, records)
}

// RecordAttendance handles today's check-in/check-out, creating the day's
// record on first touch.
func RecordAttendance(c *gin.Context) {
	salonID, userID, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var staff models.User
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, input.StaffID).
		First(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Staff member not found")
		return
	}

	now := time.Now()
	today := utils.BeginningOfDay(now)

	var record models.Attendance
	err := config.DB.Where("salon_id = ? AND staff_id = ? AND date = ?", salonID, input.StaffID, today).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.Attendance{
			SalonID: salonID,
			StaffID: input.StaffID,
			Date:    today,
			Status:  "present",
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	switch input.Action {
	case "check_in":
		if record.CheckIn != nil {
			utils.RespondWithError(c, http.StatusConflict, "Already checked in today")
			return
		}
		record.CheckIn = &now
	case "check_out":
		if record.CheckIn == nil {
			utils.RespondWithError(c, http.StatusConflict, "Cannot check out before checking in")
			return
		}
		if record.CheckOut != nil {
			utils.RespondWithError(c, http.StatusConflict, "Already checked out today")
			return
		}
		record.CheckOut = &now
	}

	if input.Status != "" {
		record.Status = input.Status
	}
	if input.Notes != "" {
		record.Notes = input.Notes
	}
	record.EditedByUserID = &userID

	if err := config.DB.Save(&record).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record attendance")
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateAttendance edits a past record under the lock policy: locked
// records need an admin session, and any past-day edit needs the confirm
// flag or the handler answers with requiresConfirmation.
func UpdateAttendance(c *gin.Context) {
	salonID, userID, ok := tenantIDs(c)
	if !ok {
		return
	}
	recordID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var record models.Attendance
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, recordID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Attendance record not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	decision := services.CheckAttendanceEdit(record.Date, time.Now(),
		services.AttendanceLockDays(), isAdminSession(c), input.Confirm)
	if decision.Locked {
		utils.RespondWithError(c, http.StatusForbidden, "Attendance record is locked for editing")
		return
	}
	if decision.RequiresConfirmation {
		c.JSON(http.StatusConflict, gin.H{
			"error":                "Editing a past attendance record requires confirmation",
			"requiresConfirmation": true,
		})
		return
	}

	if input.CheckIn != nil {
		record.CheckIn = input.CheckIn
	}
	if input.CheckOut != nil {
		record.CheckOut = input.CheckOut
	}
	if record.CheckIn != nil && record.CheckOut != nil && record.CheckOut.Before(*record.CheckIn) {
		utils.RespondWithError(c, http.StatusBadRequest, "Check-out cannot be before check-in")
		return
	}
	if input.Status != nil {
		record.Status = *input.Status
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
	}
	record.EditedByUserID = &userID

	if err := config.DB.Save(&record).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update attendance")
		return
	}

	c.JSON(http.StatusOK, record)
}
