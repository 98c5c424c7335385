// controllers/payment.go
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"salonx-backend/services"
	"salonx-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreatePaymentOrderInput struct {
	BillID uuid.UUID `json:"billId" binding:"required"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// CreatePaymentOrder opens a gateway order for a bill's outstanding amount
func CreatePaymentOrder(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input CreatePaymentOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := paymentService().CreateOrder(salonID, input.BillID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBillNotFound):
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrBillAlreadyPaid):
			utils.RespondWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrGatewayNotSetup):
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":  order.GatewayOrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"keyId":    os.Getenv("RAZORPAY_KEY_ID"),
	})
}

// VerifyPayment confirms a checkout callback signature and settles the bill
func VerifyPayment(c *gin.Context) {
	salonID, _, ok := tenantIDs(c)
	if !ok {
		return
	}

	var input VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := paymentService().VerifyPayment(salonID, input.OrderID, input.PaymentID, input.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadSignature):
			utils.RespondWithError(c, http.StatusBadRequest, "Payment signature verification failed")
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": order.Status, "billId": order.BillID})
}

// PaymentWebhook handles gateway events. The signature covers the raw body,
// so the body is read before any JSON decoding.
func PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	secret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if !services.VerifyWebhookSignature(body, signature, secret) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if event.Event == "payment.captured" {
		entity := event.Payload.Payment.Entity
		if err := paymentService().HandleCapture(entity.OrderID, entity.ID); err != nil {
			if errors.Is(err, services.ErrOrderNotFound) {
				// Unknown order: acknowledge so the gateway stops retrying.
				log.Printf("Webhook for unknown order %s", entity.OrderID)
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to process payment event")
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
