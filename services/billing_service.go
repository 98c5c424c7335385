// services/billing_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"salonx-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrItemNotFound      = errors.New("line item not found")
	ErrEmptyBill         = errors.New("bill has no items")
	ErrBadLineItem       = errors.New("line item must reference a service or a product")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponNotYet    = errors.New("coupon is not valid yet")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponMinAmount = errors.New("bill amount below coupon minimum")
)

// BillLineInput is one requested line: exactly one of ServiceID/ProductID.
type BillLineInput struct {
	ServiceID *uuid.UUID `json:"serviceId"`
	ProductID *uuid.UUID `json:"productId"`
	Quantity  int        `json:"quantity"`
}

type CreateBillInput struct {
	CustomerID      uuid.UUID
	CreatedByUserID uuid.UUID
	BillDate        *time.Time
	Reference       string
	Items           []BillLineInput
	CouponCode      string
	Discount        float64
	TaxPercent      float64
	PaymentStatus   string
	PaidAmount      float64
	PaymentMethod   string
	Notes           string
}

type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// FormatInvoiceNumber renders the per-salon invoice number for a given
// month and sequence value, e.g. INV-202608-00042.
func FormatInvoiceNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%05d", date.Format("200601"), seq)
}

// ComputeTotal applies the billing formula: discount off the subtotal,
// then tax as a percentage of the subtotal.
func ComputeTotal(subtotal, discount, taxPercent float64) float64 {
	total := subtotal - discount + (subtotal * taxPercent / 100)
	if total < 0 {
		return 0
	}
	return total
}

// CouponDiscount checks a coupon against a subtotal at a point in time and
// returns the discount it grants. All rule failures are sentinel errors.
func CouponDiscount(coupon *models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if !coupon.IsActive {
		return 0, ErrCouponInactive
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return 0, ErrCouponNotYet
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return 0, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return 0, ErrCouponExhausted
	}
	if subtotal < coupon.MinAmount {
		return 0, ErrCouponMinAmount
	}

	var discount float64
	if coupon.DiscountType == "percent" {
		discount = subtotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	} else {
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}

// CreateBill creates a bill inside a single transaction: invoice number
// from the locked per-salon sequence, coupon validation and redemption,
// conditional stock deduction for product lines, and the customer visit
// rollup. A reference that already exists short-circuits to the stored
// bill so retries do not double-charge.
func (s *BillingService) CreateBill(salonID uuid.UUID, input CreateBillInput) (*models.Bill, bool, error) {
	if len(input.Items) == 0 {
		return nil, false, ErrEmptyBill
	}

	if input.Reference != "" {
		var existing models.Bill
		err := s.db.Preload("Items").
			Where("salon_id = ? AND reference = ?", salonID, input.Reference).
			First(&existing).Error
		if err == nil {
			return &existing, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	billDate := time.Now()
	if input.BillDate != nil {
		billDate = *input.BillDate
	}

	var bill *models.Bill
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("salon_id = ? AND id = ?", salonID, input.CustomerID).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		number, err := s.nextInvoiceNumber(tx, salonID, billDate)
		if err != nil {
			return err
		}

		var subtotal float64
		var items []models.BillItem
		for _, line := range input.Items {
			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}

			switch {
			case line.ServiceID != nil && line.ProductID == nil:
				var service models.Service
				if err := tx.Where("salon_id = ? AND id = ?", salonID, *line.ServiceID).
					First(&service).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrItemNotFound
					}
					return err
				}
				lineTotal := service.Price * float64(qty)
				subtotal += lineTotal
				items = append(items, models.BillItem{
					ServiceID:  line.ServiceID,
					ItemName:   service.Name,
					Quantity:   qty,
					UnitPrice:  service.Price,
					TotalPrice: lineTotal,
				})

			case line.ProductID != nil && line.ServiceID == nil:
				product, err := s.deductStock(tx, salonID, *line.ProductID, qty, number, input.CreatedByUserID)
				if err != nil {
					return err
				}
				lineTotal := product.SellingPrice * float64(qty)
				subtotal += lineTotal
				items = append(items, models.BillItem{
					ProductID:  line.ProductID,
					ItemName:   product.Name,
					Quantity:   qty,
					UnitPrice:  product.SellingPrice,
					TotalPrice: lineTotal,
				})

			default:
				return ErrBadLineItem
			}
		}

		discount := input.Discount
		var couponID *uuid.UUID
		if input.CouponCode != "" {
			coupon, couponDiscount, err := s.redeemCoupon(tx, salonID, input.CouponCode, subtotal, billDate)
			if err != nil {
				return err
			}
			discount += couponDiscount
			couponID = &coupon.ID
		}

		total := ComputeTotal(subtotal, discount, input.TaxPercent)

		paymentStatus := input.PaymentStatus
		if paymentStatus == "" {
			paymentStatus = "unpaid"
		}

		bill = &models.Bill{
			SalonID:         salonID,
			CreatedByUserID: input.CreatedByUserID,
			InvoiceNumber:   number,
			Reference:       input.Reference,
			CustomerID:      input.CustomerID,
			BillDate:        billDate,
			Subtotal:        subtotal,
			Discount:        discount,
			Tax:             input.TaxPercent,
			Total:           total,
			CouponID:        couponID,
			CouponCode:      input.CouponCode,
			PaymentStatus:   paymentStatus,
			PaidAmount:      input.PaidAmount,
			PaymentMethod:   input.PaymentMethod,
			Notes:           input.Notes,
			Items:           items,
		}
		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		return tx.Model(&models.Customer{}).Where("id = ?", input.CustomerID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", total),
				"last_visit":   billDate,
			}).Error
	})
	if err != nil {
		// Two requests racing on the same reference both miss the lookup
		// above; the partial unique index rejects the loser, which then
		// returns the winner's bill.
		if input.Reference != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Bill
			if lookupErr := s.db.Preload("Items").
				Where("salon_id = ? AND reference = ?", salonID, input.Reference).
				First(&existing).Error; lookupErr == nil {
				return &existing, true, nil
			}
		}
		return nil, false, err
	}
	return bill, false, nil
}

// DeleteBill removes a bill and unwinds its side effects in fixed order:
// stock restored, coupon usage released, items removed, bill removed,
// customer rollup reversed.
func (s *BillingService) DeleteBill(salonID, billID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var bill models.Bill
		if err := tx.Preload("Items").
			Where("salon_id = ? AND id = ?", salonID, billID).
			First(&bill).Error; err != nil {
			return err
		}

		for _, item := range bill.Items {
			if item.ProductID == nil {
				continue
			}
			if err := s.restoreStock(tx, salonID, *item.ProductID, item.Quantity, bill.InvoiceNumber); err != nil {
				return err
			}
		}

		if bill.CouponID != nil {
			if err := tx.Model(&models.Coupon{}).
				Where("id = ? AND used_count > 0", *bill.CouponID).
				Update("used_count", gorm.Expr("used_count - ?", 1)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&bill).Error; err != nil {
			return err
		}

		return tx.Model(&models.Customer{}).Where("id = ?", bill.CustomerID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits - ?", 1),
				"total_spent":  gorm.Expr("total_spent - ?", bill.Total),
			}).Error
	})
}

// ValidateCoupon is the dry-run used by POST /api/coupons/validate. It never
// bumps the usage counter.
func (s *BillingService) ValidateCoupon(salonID uuid.UUID, code string, subtotal float64) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	if err := s.db.Where("salon_id = ? AND code = ?", salonID, code).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, err
	}
	discount, err := CouponDiscount(&coupon, subtotal, time.Now())
	if err != nil {
		return nil, 0, err
	}
	return &coupon, discount, nil
}

func (s *BillingService) nextInvoiceNumber(tx *gorm.DB, salonID uuid.UUID, date time.Time) (string, error) {
	var seq models.BillSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ?", salonID).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.BillSequence{SalonID: salonID, NextSeq: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	number := FormatInvoiceNumber(date, seq.NextSeq)
	if err := tx.Model(&models.BillSequence{}).Where("salon_id = ?", salonID).
		Update("next_seq", gorm.Expr("next_seq + ?", 1)).Error; err != nil {
		return "", err
	}
	return number, nil
}

func (s *BillingService) redeemCoupon(tx *gorm.DB, salonID uuid.UUID, code string, subtotal float64, now time.Time) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND code = ?", salonID, code).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, err
	}

	discount, err := CouponDiscount(&coupon, subtotal, now)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Model(&coupon).
		Update("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
		return nil, 0, err
	}
	return &coupon, discount, nil
}

// deductStock locks the product row and decrements its quantity, refusing
// to let it go negative, then writes the audit entry.
func (s *BillingService) deductStock(tx *gorm.DB, salonID, productID uuid.UUID, qty int, reference string, userID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND id = ?", salonID, productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if product.StockQty < qty {
		return nil, fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.StockQty)
	}

	product.StockQty -= qty
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_qty", product.StockQty).Error; err != nil {
		return nil, err
	}

	entry := models.StockEntry{
		SalonID:         salonID,
		ProductID:       product.ID,
		Quantity:        -qty,
		Reason:          "sale",
		Reference:       reference,
		BalanceAfter:    product.StockQty,
		CreatedByUserID: userID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *BillingService) restoreStock(tx *gorm.DB, salonID, productID uuid.UUID, qty int, reference string) error {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND id = ?", salonID, productID).
		First(&product).Error
	if err != nil {
		// Product removed since the sale; nothing to restore.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	product.StockQty += qty
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_qty", product.StockQty).Error; err != nil {
		return err
	}

	entry := models.StockEntry{
		SalonID:      salonID,
		ProductID:    product.ID,
		Quantity:     qty,
		Reason:       "bill_reversal",
		Reference:    reference,
		BalanceAfter: product.StockQty,
	}
	return tx.Create(&entry).Error
}
