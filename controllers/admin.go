// controllers/admin.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateLeadInput struct {
	Name      string `json:"name" binding:"required"`
	SalonName string `json:"salonName"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	City      string `json:"city"`
	Source    string `json:"source"`
	Notes     string `json:"notes"`
}

type UpdateLeadInput struct {
	Name      *string `json:"name"`
	SalonName *string `json:"salonName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	City      *string `json:"city"`
	Status    *string `json:"status" binding:"omitempty,oneof=new contacted converted lost"`
	Notes     *string `json:"notes"`
}

type GenerateKeyInput struct {
	IssuedTo   string `json:"issuedTo"`
	ExpiryDays int    `json:"expiryDays" binding:"min=0"`
}

// ListSalons returns all tenant salons
func ListSalons(c *gin.Context) {
	var salons []models.Salon
	if err := config.DB.Order("created_at DESC").Find(&salons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve salons")
		return
	}
	c.JSON(http.StatusOK, salons)
}

// GetSalonDetail returns a salon with its users and subscription
func GetSalonDetail(c *gin.Context) {
	salonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var salon models.Salon
	if err := config.DB.Preload("Users").First(&salon, "id = ?", salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var subscription models.Subscription
	config.DB.Where("salon_id = ?", salonID).Order("created_at DESC").First(&subscription)

	c.JSON(http.StatusOK, gin.H{"salon": salon, "subscription": subscription})
}

// SetSalonActive activates or deactivates a tenant
func SetSalonActive(c *gin.Context) {
	salonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	result := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).
		Update("is_active", *input.IsActive)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update salon")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Salon updated"})
}

// CreateLead captures a prospective customer
func CreateLead(c *gin.Context) {
	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	source := input.Source
	if source == "" {
		source = "website"
	}

	lead := models.Lead{
		Name:      input.Name,
		SalonName: input.SalonName,
		Phone:     input.Phone,
		Email:     input.Email,
		City:      input.City,
		Source:    source,
		Notes:     input.Notes,
		Status:    "new",
	}
	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLeads lists leads, optionally filtered by status
func GetLeads(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// UpdateLead updates a lead record
func UpdateLead(c *gin.Context) {
	leadID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.SalonName != nil {
		lead.SalonName = *input.SalonName
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.City != nil {
		lead.City = *input.City
	}
	if input.Status != nil {
		lead.Status = *input.Status
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}

	if err := config.DB.Save(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// ConvertLead provisions a salon from a lead and issues its activation key.
// The plaintext key is returned once and only the hash is stored.
func ConvertLead(c *gin.Context) {
	leadID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if lead.Status == "converted" {
		utils.RespondWithError(c, http.StatusConflict, "Lead already converted")
		return
	}

	salonName := lead.SalonName
	if salonName == "" {
		salonName = lead.Name
	}

	plaintext := utils.GenerateRandomString(24)
	keyHash, err := utils.HashPassword(plaintext)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate activation key")
		return
	}

	var salon models.Salon
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		salon = models.Salon{
			Name:     salonName,
			Phone:    lead.Phone,
			Email:    lead.Email,
			IsActive: true,
		}
		if err := tx.Create(&salon).Error; err != nil {
			return err
		}

		expires := time.Now().AddDate(0, 0, 30)
		key := models.ActivationKey{
			SalonID:   &salon.ID,
			KeyHash:   keyHash,
			KeyPrefix: plaintext[:8],
			IssuedTo:  lead.Email,
			ExpiresAt: &expires,
		}
		if err := tx.Create(&key).Error; err != nil {
			return err
		}

		return tx.Model(&lead).Updates(map[string]interface{}{
			"status":             "converted",
			"converted_salon_id": salon.ID,
		}).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to convert lead")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"salonId":       salon.ID,
		"activationKey": plaintext,
		"message":       "Lead converted; share the activation key with the owner",
	})
}

// GenerateActivationKey issues an unbound activation key
func GenerateActivationKey(c *gin.Context) {
	var input GenerateKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	plaintext := utils.GenerateRandomString(24)
	keyHash, err := utils.HashPassword(plaintext)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate key")
		return
	}

	key := models.ActivationKey{
		KeyHash:   keyHash,
		KeyPrefix: plaintext[:8],
		IssuedTo:  input.IssuedTo,
	}
	if input.ExpiryDays > 0 {
		expires := time.Now().AddDate(0, 0, input.ExpiryDays)
		key.ExpiresAt = &expires
	}

	if err := config.DB.Create(&key).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to store key")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            key.ID,
		"activationKey": plaintext,
		"message":       "Key shown once; only its hash is stored",
	})
}

// ListActivationKeys lists issued keys (hashes never leave the server)
func ListActivationKeys(c *gin.Context) {
	var keys []models.ActivationKey
	if err := config.DB.Order("created_at DESC").Find(&keys).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve keys")
		return
	}

	out := make([]gin.H, 0, len(keys))
	for _, k := range keys {
		out = append(out, gin.H{
			"id":        k.ID,
			"keyPrefix": k.KeyPrefix,
			"issuedTo":  k.IssuedTo,
			"salonId":   k.SalonID,
			"usedAt":    k.UsedAt,
			"expiresAt": k.ExpiresAt,
			"createdAt": k.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// RevokeActivationKey deletes an unused key
func RevokeActivationKey(c *gin.Context) {
	keyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND used_at IS NULL", keyID).
		Delete(&models.ActivationKey{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke key")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Key not found or already used")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// ListSubscriptions lists tenant subscriptions
func ListSubscriptions(c *gin.Context) {
	var subs []models.Subscription
	if err := config.DB.Order("expires_at").Find(&subs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// UpdateSubscription changes a tenant's plan, status or expiry
func UpdateSubscription(c *gin.Context) {
	subID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Plan      *string    `json:"plan" binding:"omitempty,oneof=trial basic pro"`
		Status    *string    `json:"status" binding:"omitempty,oneof=active expired cancelled"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var sub models.Subscription
	if err := config.DB.First(&sub, "id = ?", subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Plan != nil {
		sub.Plan = *input.Plan
	}
	if input.Status != nil {
		sub.Status = *input.Status
	}
	if input.ExpiresAt != nil {
		sub.ExpiresAt = *input.ExpiresAt
	}

	if err := config.DB.Save(&sub).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}
