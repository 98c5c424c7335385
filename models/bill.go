package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bill struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salon_invoice,priority:1;uniqueIndex:idx_salon_reference,priority:1"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string `gorm:"not null;uniqueIndex:idx_salon_invoice,priority:2"`
	// Client-supplied idempotency key. The partial unique index rejects a
	// concurrent duplicate that slipped past the pre-transaction lookup.
	Reference string `gorm:"uniqueIndex:idx_salon_reference,priority:2,where:reference <> ''"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	BillDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null"`
	Discount float64 `gorm:"type:decimal(10,2);default:0.0"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0"`
	Total    float64 `gorm:"type:decimal(10,2);not null"`

	CouponID   *uuid.UUID `gorm:"type:uuid;index"`
	CouponCode string

	PaymentStatus string  `gorm:"type:varchar(20);default:'unpaid'"` // paid, unpaid, partial
	PaidAmount    float64 `gorm:"type:decimal(10,2);default:0.0"`
	PaymentMethod string
	Notes         string

	Items []BillItem `gorm:"foreignKey:BillID"`

	gorm.Model
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// BillItem is a single line on a bill: either a salon service or a retail
// product, never both.
type BillItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	BillID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`

	ItemName   string  `gorm:"not null"`
	Quantity   int     `gorm:"default:1"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice float64 `gorm:"type:decimal(10,2);not null"`

	gorm.Model
}

func (i *BillItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// BillSequence holds the per-salon invoice counter. The row is locked for
// update inside the billing transaction so concurrent bills cannot share a
// number.
type BillSequence struct {
	SalonID uuid.UUID `gorm:"type:uuid;primary_key"`
	NextSeq int64     `gorm:"not null;default:1"`
}

type PaymentOrder struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`
	BillID  uuid.UUID `gorm:"type:uuid;index;not null"`

	GatewayOrderID   string  `gorm:"uniqueIndex;not null"`
	GatewayPaymentID string  `gorm:"index"`
	Amount           float64 `gorm:"type:decimal(10,2);not null"`
	Currency         string  `gorm:"type:varchar(8);default:'INR'"`
	Status           string  `gorm:"type:varchar(20);default:'created'"` // created, paid, failed

	gorm.Model
}

func (p *PaymentOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
