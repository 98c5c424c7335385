package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	ActivationKey string       `json:"activationKey" binding:"required"`
	Email         string       `json:"email" binding:"required,email"`
	Phone         string       `json:"phone" binding:"required"`
	Name          string       `json:"name" binding:"required"`
	Password      string       `json:"password" binding:"required,min=8"`
	SalonName     string       `json:"salonName" binding:"required"`
	SalonAddress  string       `json:"salonAddress"`
	WorkingHours  models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register redeems an activation key and provisions the tenant: the salon
// row, the owner user, default reminder templates and a trial subscription.
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	key, err := findActivationKey(input.ActivationKey)
	if err != nil {
		utils.RespondWithError(c, http.StatusForbidden, "Invalid or used activation key")
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	workingHours := input.WorkingHours
	if workingHours == nil {
		workingHours = defaultWorkingHours()
	}

	var newUser models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		salon := models.Salon{
			Name:         input.SalonName,
			Address:      input.SalonAddress,
			Phone:        input.Phone,
			Email:        input.Email,
			WorkingHours: workingHours,
			IsActive:     true,
		}
		// A key issued from a converted lead is already bound to its salon.
		if key.SalonID != nil {
			if err := tx.First(&salon, "id = ?", *key.SalonID).Error; err != nil {
				return err
			}
		} else if err := tx.Create(&salon).Error; err != nil {
			return err
		}

		newUser = models.User{
			SalonID:  salon.ID,
			Email:    input.Email,
			Phone:    input.Phone,
			Name:     input.Name,
			Password: input.Password, // hashed in BeforeCreate hook
			Role:     "owner",
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		if err := createDefaultReminderTemplates(tx, salon.ID); err != nil {
			return err
		}

		now := time.Now()
		sub := models.Subscription{
			SalonID:   salon.ID,
			Plan:      "trial",
			Status:    "active",
			StartsAt:  now,
			ExpiresAt: now.AddDate(0, 0, 30),
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		return tx.Model(&models.ActivationKey{}).Where("id = ?", key.ID).
			Updates(map[string]interface{}{"used_at": now, "salon_id": salon.ID}).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.SalonID.String(), false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.SetSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":        newUser.ID,
			"email":     newUser.Email,
			"phone":     newUser.Phone,
			"salonId":   newUser.SalonID,
			"salonName": input.SalonName,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.SalonID.String(), false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	utils.SetSessionCookie(c, token)

	var salon models.Salon
	config.DB.First(&salon, "id = ?", user.SalonID)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"phone":     user.Phone,
			"name":      user.Name,
			"role":      user.Role,
			"salonId":   user.SalonID,
			"salonName": salon.Name,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusInternalServerError, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.Preload("Salon").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"role":      user.Role,
			"salonId":   user.SalonID,
			"salonName": user.Salon.Name,
		},
	})
}

func findActivationKey(plaintext string) (*models.ActivationKey, error) {
	if len(plaintext) < 8 {
		return nil, errors.New("key too short")
	}

	var keys []models.ActivationKey
	if err := config.DB.Where("key_prefix = ? AND used_at IS NULL", plaintext[:8]).
		Find(&keys).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range keys {
		if keys[i].ExpiresAt != nil && now.After(*keys[i].ExpiresAt) {
			continue
		}
		if utils.CheckPasswordHash(plaintext, keys[i].KeyHash) {
			return &keys[i], nil
		}
	}
	return nil, errors.New("no matching key")
}

func createDefaultReminderTemplates(tx *gorm.DB, salonID uuid.UUID) error {
	defaultTemplates := []models.ReminderTemplate{
		{
			SalonID: salonID,
			Type:    "birthday",
			Message: "Hi [CustomerName], we wish you a very happy birthday! Enjoy 20% off on your next visit this month!",
		},
		{
			SalonID: salonID,
			Type:    "anniversary",
			Message: "Hi [CustomerName], happy anniversary! Thank you for being our valued customer. Here's 15% off your next service!",
		},
	}

	for _, template := range defaultTemplates {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
	}
	return nil
}

func defaultWorkingHours() models.JSONB {
	return models.JSONB{
		"monday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"tuesday":   map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"wednesday": map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"thursday":  map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"friday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"saturday":  map[string]interface{}{"open": "09:00", "close": "21:00", "closed": false},
		"sunday":    map[string]interface{}{"open": "10:00", "close": "19:00", "closed": true},
	}
}
