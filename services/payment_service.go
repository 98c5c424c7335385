// services/payment_service.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"salonx-backend/models"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound    = errors.New("bill not found")
	ErrBillAlreadyPaid = errors.New("bill already paid")
	ErrOrderNotFound   = errors.New("payment order not found")
	ErrBadSignature    = errors.New("signature verification failed")
	ErrGatewayNotSetup = errors.New("payment gateway credentials not configured")
)

type PaymentService struct {
	db     *gorm.DB
	client *razorpay.Client
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")

	var client *razorpay.Client
	if keyID != "" && keySecret != "" {
		client = razorpay.NewClient(keyID, keySecret)
	}
	return &PaymentService{db: db, client: client}
}

// CreateOrder opens a gateway order for the outstanding amount on a bill
// and records it locally.
func (s *PaymentService) CreateOrder(salonID, billID uuid.UUID) (*models.PaymentOrder, error) {
	if s.client == nil {
		return nil, ErrGatewayNotSetup
	}

	var bill models.Bill
	if err := s.db.Where("salon_id = ? AND id = ?", salonID, billID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	due := bill.Total - bill.PaidAmount
	if due <= 0 {
		return nil, ErrBillAlreadyPaid
	}

	// Gateway amounts are in the smallest currency unit.
	data := map[string]interface{}{
		"amount":   int64(due * 100),
		"currency": "INR",
		"receipt":  bill.InvoiceNumber,
	}
	resp, err := s.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway order create: %w", err)
	}

	orderID, _ := resp["id"].(string)
	if orderID == "" {
		return nil, errors.New("gateway returned no order id")
	}

	order := models.PaymentOrder{
		SalonID:        salonID,
		BillID:         bill.ID,
		GatewayOrderID: orderID,
		Amount:         due,
		Currency:       "INR",
		Status:         "created",
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment checks the checkout callback signature and, when valid,
// marks the order and its bill paid.
func (s *PaymentService) VerifyPayment(salonID uuid.UUID, orderID, paymentID, signature string) (*models.PaymentOrder, error) {
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if !VerifyPaymentSignature(orderID, paymentID, signature, secret) {
		return nil, ErrBadSignature
	}

	var order models.PaymentOrder
	if err := s.db.Where("salon_id = ? AND gateway_order_id = ?", salonID, orderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.markPaid(&order, paymentID); err != nil {
		return nil, err
	}
	return &order, nil
}

// HandleCapture processes a payment.captured webhook event. Replayed events
// are acknowledged without touching the bill again.
func (s *PaymentService) HandleCapture(orderID, paymentID string) error {
	var order models.PaymentOrder
	if err := s.db.Where("gateway_order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.Status == "paid" {
		return nil
	}
	return s.markPaid(&order, paymentID)
}

func (s *PaymentService) markPaid(order *models.PaymentOrder, paymentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentOrder{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":             "paid",
				"gateway_payment_id": paymentID,
			}).Error; err != nil {
			return err
		}
		order.Status = "paid"
		order.GatewayPaymentID = paymentID

		return tx.Model(&models.Bill{}).Where("id = ?", order.BillID).
			Updates(map[string]interface{}{
				"payment_status": "paid",
				"paid_amount":    gorm.Expr("total"),
				"payment_method": "online",
			}).Error
	})
}

// VerifyPaymentSignature checks the HMAC-SHA256 the gateway computes over
// "orderID|paymentID" during checkout.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the HMAC-SHA256 over the raw webhook body.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
