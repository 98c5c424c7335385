package services

import (
	"testing"
	"time"

	"salonx-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	date := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-202507-00001", FormatInvoiceNumber(date, 1))
	assert.Equal(t, "INV-202507-00123", FormatInvoiceNumber(date, 123))
	assert.Equal(t, "INV-202512-99999", FormatInvoiceNumber(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 99999))
}

func TestComputeTotal(t *testing.T) {
	assert.InDelta(t, 1000.0, ComputeTotal(1000, 0, 0), 0.001)
	assert.InDelta(t, 900.0, ComputeTotal(1000, 100, 0), 0.001)
	assert.InDelta(t, 1080.0, ComputeTotal(1000, 100, 18), 0.001)
	// discount can never push the total negative
	assert.Equal(t, 0.0, ComputeTotal(100, 500, 0))
}

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		Code:         "WELCOME10",
		DiscountType: "percent",
		Value:        10,
		IsActive:     true,
	}
}

func TestCouponDiscountPercent(t *testing.T) {
	now := time.Now()

	discount, err := CouponDiscount(activeCoupon(), 500, now)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, discount, 0.001)
}

func TestCouponDiscountPercentCap(t *testing.T) {
	coupon := activeCoupon()
	coupon.MaxDiscount = 30

	discount, err := CouponDiscount(coupon, 500, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 30.0, discount, 0.001)
}

func TestCouponDiscountFlat(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountType = "flat"
	coupon.Value = 75

	discount, err := CouponDiscount(coupon, 500, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 75.0, discount, 0.001)
}

func TestCouponDiscountFlatClampedToSubtotal(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountType = "flat"
	coupon.Value = 1000

	discount, err := CouponDiscount(coupon, 200, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 200.0, discount, 0.001)
}

func TestCouponDiscountInactive(t *testing.T) {
	coupon := activeCoupon()
	coupon.IsActive = false

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestCouponDiscountNotYetValid(t *testing.T) {
	coupon := activeCoupon()
	from := time.Now().Add(24 * time.Hour)
	coupon.ValidFrom = &from

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.ErrorIs(t, err, ErrCouponNotYet)
}

func TestCouponDiscountExpired(t *testing.T) {
	coupon := activeCoupon()
	until := time.Now().Add(-24 * time.Hour)
	coupon.ValidUntil = &until

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestCouponDiscountExhausted(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 5
	coupon.UsedCount = 5

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestCouponDiscountUnlimitedUsage(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 0
	coupon.UsedCount = 10000

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.NoError(t, err)
}

func TestCouponDiscountBelowMinimum(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinAmount = 1000

	_, err := CouponDiscount(coupon, 500, time.Now())
	assert.ErrorIs(t, err, ErrCouponMinAmount)
}
