package controllers

import (
	"errors"
	"net/http"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdjustStockInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"` // signed delta
	Reason    string    `json:"reason" binding:"required,oneof=purchase adjustment wastage"`
	Reference string    `json:"reference"`
}

// GetStock lists current stock levels with recent movement
func GetStock(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("salon_id = ? AND is_active = true", salonID).
		Order("name").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetLowStock lists products at or below their reorder level
func GetLowStock(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("salon_id = ? AND is_active = true AND stock_qty <= reorder_level", salonID).
		Order("stock_qty").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve low stock")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetStockEntries lists the movement history for a product
func GetStockEntries(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var entries []models.StockEntry
	if err := config.DB.Where("salon_id = ? AND product_id = ?", salonID, productID).
		Order("created_at DESC").Limit(100).Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock entries")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AdjustStock applies a signed stock delta inside a transaction. The
// product row is locked so concurrent adjustments cannot interleave, and
// a delta that would push stock negative is rejected.
func AdjustStock(c *gin.Context) {
	salonID, userID, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("salon_id = ? AND id = ?", salonID, input.ProductID).
			First(&product).Error; err != nil {
			return err
		}

		newQty := product.StockQty + input.Quantity
		if newQty < 0 {
			return gorm.ErrCheckConstraintViolated
		}

		product.StockQty = newQty
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("stock_qty", newQty).Error; err != nil {
			return err
		}

		entry := models.StockEntry{
			SalonID:         salonID,
			ProductID:       product.ID,
			Quantity:        input.Quantity,
			Reason:          input.Reason,
			Reference:       input.Reference,
			BalanceAfter:    newQty,
			CreatedByUserID: userID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, gorm.ErrCheckConstraintViolated):
			utils.RespondWithError(c, http.StatusConflict, "Adjustment would make stock negative")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to adjust stock")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}
