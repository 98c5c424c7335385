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
)

type CreateProductInput struct {
	Name         string     `json:"name" binding:"required"`
	SKU          string     `json:"sku"`
	Category     string     `json:"category"`
	CostPrice    float64    `json:"costPrice" binding:"min=0"`
	SellingPrice float64    `json:"sellingPrice" binding:"required,min=0"`
	StockQty     int        `json:"stockQty" binding:"min=0"`
	ReorderLevel int        `json:"reorderLevel" binding:"min=0"`
	Unit         string     `json:"unit"`
	SupplierID   *uuid.UUID `json:"supplierId"`
}

type UpdateProductInput struct {
	Name         *string    `json:"name"`
	SKU          *string    `json:"sku"`
	Category     *string    `json:"category"`
	CostPrice    *float64   `json:"costPrice"`
	SellingPrice *float64   `json:"sellingPrice"`
	ReorderLevel *int       `json:"reorderLevel"`
	Unit         *string    `json:"unit"`
	SupplierID   *uuid.UUID `json:"supplierId"`
	IsActive     *bool      `json:"isActive"`
}

// CreateProduct creates a new retail product for the salon. An opening
// stock quantity gets its own audit entry.
func CreateProduct(c *gin.Context) {
	salonID, userID, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.SupplierID != nil {
		var supplier models.Supplier
		if err := config.DB.Where("salon_id = ? AND id = ?", salonID, *input.SupplierID).
			First(&supplier).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Supplier not found")
			return
		}
	}

	sku := input.SKU
	if sku == "" {
		sku = "SKU-" + utils.GenerateRandomString(8)
	}

	product := models.Product{
		SalonID:      salonID,
		SupplierID:   input.SupplierID,
		Name:         input.Name,
		SKU:          sku,
		Category:     input.Category,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		StockQty:     input.StockQty,
		ReorderLevel: input.ReorderLevel,
		Unit:         input.Unit,
		IsActive:     true,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if input.StockQty > 0 {
			entry := models.StockEntry{
				SalonID:         salonID,
				ProductID:       product.ID,
				Quantity:        input.StockQty,
				Reason:          "purchase",
				Reference:       "opening stock",
				BalanceAfter:    input.StockQty,
				CreatedByUserID: userID,
			}
			return tx.Create(&entry).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products for the salon
func GetProducts(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("salon_id = ?", salonID).Order("name").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct updates an existing product. Stock quantity changes go
// through the inventory adjustment endpoint, not here.
func UpdateProduct(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.ReorderLevel != nil {
		product.ReorderLevel = *input.ReorderLevel
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.SupplierID != nil {
		var supplier models.Supplier
		if err := config.DB.Where("salon_id = ? AND id = ?", salonID, *input.SupplierID).
			First(&supplier).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Supplier not found")
			return
		}
		product.SupplierID = input.SupplierID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product
func DeleteProduct(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, productID).
		Delete(&models.Product{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
