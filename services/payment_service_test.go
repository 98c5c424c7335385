package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "gateway-secret"
	sig := sign("order_123|pay_456", secret)

	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig, "other-secret"))
	assert.False(t, VerifyPaymentSignature("order_999", "pay_456", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "deadbeef", secret))
}

func TestVerifyPaymentSignatureEmptyInputs(t *testing.T) {
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "", "secret"))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "sig", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"event":"payment.captured"}`)
	sig := sign(string(body), secret)

	assert.True(t, VerifyWebhookSignature(body, sig, secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sig, secret))
	assert.False(t, VerifyWebhookSignature(body, sig, "other-secret"))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
}
