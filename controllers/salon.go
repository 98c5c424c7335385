package controllers

import (
	"net/http"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateSalonInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// GetSalon returns the salon profile and settings
func GetSalon(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                  salon.Name,
		"address":               salon.Address,
		"phone":                 salon.Phone,
		"email":                 salon.Email,
		"workingHours":          salon.WorkingHours,
		"birthdayReminders":     salon.BirthdayReminders,
		"anniversaryReminders":  salon.AnniversaryReminders,
		"whatsAppNotifications": salon.WhatsAppNotifications,
		"smsNotifications":      salon.SMSNotifications,
		"emailNotifications":    salon.EmailNotifications,
	})
}

// UpdateSalonProfile updates the salon's contact details
func UpdateSalonProfile(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input UpdateSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	salon.Name = input.Name
	salon.Address = input.Address
	salon.Phone = input.Phone
	salon.Email = input.Email

	if err := config.DB.Save(&salon).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update salon")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Salon updated"})
}

// UpdateWorkingHours updates the weekly schedule blob
func UpdateWorkingHours(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input struct {
		WorkingHours models.JSONB `json:"workingHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).
		Update("working_hours", input.WorkingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update working hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Working hours updated"})
}

// UpdateNotifications toggles the reminder channels
func UpdateNotifications(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input struct {
		BirthdayReminders     *bool `json:"birthdayReminders"`
		AnniversaryReminders  *bool `json:"anniversaryReminders"`
		WhatsAppNotifications *bool `json:"whatsAppNotifications"`
		SMSNotifications      *bool `json:"smsNotifications"`
		EmailNotifications    *bool `json:"emailNotifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := map[string]interface{}{}
	if input.BirthdayReminders != nil {
		updates["birthday_reminders"] = *input.BirthdayReminders
	}
	if input.AnniversaryReminders != nil {
		updates["anniversary_reminders"] = *input.AnniversaryReminders
	}
	if input.WhatsAppNotifications != nil {
		updates["whats_app_notifications"] = *input.WhatsAppNotifications
	}
	if input.SMSNotifications != nil {
		updates["sms_notifications"] = *input.SMSNotifications
	}
	if input.EmailNotifications != nil {
		updates["email_notifications"] = *input.EmailNotifications
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).
		Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}

// UpdateReminderTemplates replaces the message templates
func UpdateReminderTemplates(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input struct {
		Templates []struct {
			Type    string `json:"type" binding:"required,oneof=birthday anniversary"`
			Message string `json:"message" binding:"required"`
		} `json:"templates" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	for _, t := range input.Templates {
		result := config.DB.Model(&models.ReminderTemplate{}).
			Where("salon_id = ? AND type = ?", salonID, t.Type).
			Update("message", t.Message)
		if result.Error != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update templates")
			return
		}
		if result.RowsAffected == 0 {
			template := models.ReminderTemplate{
				SalonID:  salonID,
				Type:     t.Type,
				Message:  t.Message,
				IsActive: true,
			}
			if err := config.DB.Create(&template).Error; err != nil {
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update templates")
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Templates updated"})
}
