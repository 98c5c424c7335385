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
	"gorm.io/gorm"
)

type CreateCouponInput struct {
	Code         string     `json:"code" binding:"required"`
	Description  string     `json:"description"`
	DiscountType string     `json:"discountType" binding:"required,oneof=flat percent"`
	Value        float64    `json:"value" binding:"required,min=0"`
	MinAmount    float64    `json:"minAmount" binding:"min=0"`
	MaxDiscount  float64    `json:"maxDiscount" binding:"min=0"`
	ValidFrom    *time.Time `json:"validFrom"`
	ValidUntil   *time.Time `json:"validUntil"`
	UsageLimit   int        `json:"usageLimit" binding:"min=0"`
}

type UpdateCouponInput struct {
	Description *string    `json:"description"`
	Value       *float64   `json:"value"`
	MinAmount   *float64   `json:"minAmount"`
	MaxDiscount *float64   `json:"maxDiscount"`
	ValidFrom   *time.Time `json:"validFrom"`
	ValidUntil  *time.Time `json:"validUntil"`
	UsageLimit  *int       `json:"usageLimit"`
	IsActive    *bool      `json:"isActive"`
}

type ValidateCouponInput struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,min=0"`
}

// CreateCoupon creates a new coupon for the salon
func CreateCoupon(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Coupon
	if err := config.DB.Where("salon_id = ? AND code = ?", salonID, input.Code).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Coupon with this code already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	coupon := models.Coupon{
		SalonID:      salonID,
		Code:         input.Code,
		Description:  input.Description,
		DiscountType: input.DiscountType,
		Value:        input.Value,
		MinAmount:    input.MinAmount,
		MaxDiscount:  input.MaxDiscount,
		ValidFrom:    input.ValidFrom,
		ValidUntil:   input.ValidUntil,
		UsageLimit:   input.UsageLimit,
		IsActive:     true,
	}

	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

// GetCoupons retrieves all coupons for the salon
func GetCoupons(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var coupons []models.Coupon
	if err := config.DB.Where("salon_id = ?", salonID).Order("created_at DESC").
		Find(&coupons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve coupons")
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// UpdateCoupon updates an existing coupon. The code is immutable once
// bills reference it.
func UpdateCoupon(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	couponID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var coupon models.Coupon
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, couponID).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Coupon not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Description != nil {
		coupon.Description = *input.Description
	}
	if input.Value != nil {
		coupon.Value = *input.Value
	}
	if input.MinAmount != nil {
		coupon.MinAmount = *input.MinAmount
	}
	if input.MaxDiscount != nil {
		coupon.MaxDiscount = *input.MaxDiscount
	}
	if input.ValidFrom != nil {
		coupon.ValidFrom = input.ValidFrom
	}
	if input.ValidUntil != nil {
		coupon.ValidUntil = input.ValidUntil
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = *input.UsageLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&coupon).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// DeleteCoupon soft deletes a coupon
func DeleteCoupon(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	couponID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, couponID).
		Delete(&models.Coupon{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}

// ValidateCoupon dry-runs a coupon against a subtotal without redeeming it
func ValidateCoupon(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	coupon, discount, err := billingService().ValidateCoupon(salonID, input.Code, input.Subtotal)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"discount": discount,
		"coupon": gin.H{
			"code":         coupon.Code,
			"discountType": coupon.DiscountType,
			"value":        coupon.Value,
		},
	})
}
