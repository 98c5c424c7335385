// controllers/billing.go
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

// CreateBillInput defines the expected JSON structure for creating a bill
type CreateBillInput struct {
	CustomerID    uuid.UUID                `json:"customerId" binding:"required"`
	BillDate      *time.Time               `json:"billDate"`
	Reference     string                   `json:"reference"`
	Items         []services.BillLineInput `json:"items" binding:"required,min=1"`
	CouponCode    string                   `json:"couponCode"`
	Discount      float64                  `json:"discount" binding:"min=0"`
	Tax           float64                  `json:"tax" binding:"min=0"`
	PaymentStatus string                   `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    float64                  `json:"paidAmount" binding:"min=0"`
	PaymentMethod string                   `json:"paymentMethod"`
	Notes         string                   `json:"notes"`
}

// CreateBill creates a bill through the billing service. Passing a
// reference already seen returns the stored bill instead of a duplicate.
func CreateBill(c *gin.Context) {
	salonID, userID, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bill, existing, err := billingService().CreateBill(salonID, services.CreateBillInput{
		CustomerID:      input.CustomerID,
		CreatedByUserID: userID,
		BillDate:        input.BillDate,
		Reference:       input.Reference,
		Items:           input.Items,
		CouponCode:      input.CouponCode,
		Discount:        input.Discount,
		TaxPercent:      input.Tax,
		PaymentStatus:   input.PaymentStatus,
		PaidAmount:      input.PaidAmount,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
	})
	if err != nil {
		respondBillingError(c, err)
		return
	}

	if existing {
		c.JSON(http.StatusOK, bill)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// GetBills retrieves all bills for the salon
func GetBills(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Where("salon_id = ?", salonID)

	if from := c.Query("from"); from != "" {
		day, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("bill_date >= ?", day)
	}
	if to := c.Query("to"); to != "" {
		day, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("bill_date < ?", day.AddDate(0, 0, 1))
	}

	var bills []models.Bill
	if err := query.Order("bill_date DESC").Find(&bills).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bills")
		return
	}

	c.JSON(http.StatusOK, bills)
}

// GetBill retrieves a specific bill by ID
func GetBill(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var bill models.Bill
	if err := config.DB.Preload("Items").
		Where("salon_id = ? AND id = ?", salonID, billID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateBillPayment records a payment against a bill
func UpdateBillPayment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		PaymentStatus string  `json:"paymentStatus" binding:"required,oneof=paid unpaid partial"`
		PaidAmount    float64 `json:"paidAmount" binding:"min=0"`
		PaymentMethod string  `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var bill models.Bill
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, billID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	bill.PaymentStatus = input.PaymentStatus
	bill.PaidAmount = input.PaidAmount
	if input.PaymentMethod != "" {
		bill.PaymentMethod = input.PaymentMethod
	}

	if err := config.DB.Save(&bill).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update bill")
		return
	}

	c.JSON(http.StatusOK, bill)
}

// DeleteBill deletes a bill, restoring stock and customer stats
func DeleteBill(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := billingService().DeleteBill(salonID, billID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete bill")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

// DownloadBillPDF streams the bill as a PDF attachment
func DownloadBillPDF(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	data, filename, err := exportService().BillPDF(salonID, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate PDF")
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func respondBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrEmptyBill),
		errors.Is(err, services.ErrBadLineItem):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrCouponNotFound):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCouponInactive),
		errors.Is(err, services.ErrCouponNotYet),
		errors.Is(err, services.ErrCouponExpired),
		errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrCouponMinAmount):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create bill")
	}
}
