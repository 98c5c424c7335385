package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supplier struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string `gorm:"not null"`
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	IsActive      bool `gorm:"default:true"`

	Products []Product `gorm:"foreignKey:SupplierID"`

	gorm.Model
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	SalonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_salon_sku,priority:1"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`

	Name         string  `gorm:"not null"`
	SKU          string  `gorm:"uniqueIndex:idx_salon_sku,priority:2"`
	Category     string  `gorm:"default:'General'"`
	CostPrice    float64 `gorm:"type:decimal(10,2);default:0.0"`
	SellingPrice float64 `gorm:"type:decimal(10,2);not null"`
	StockQty     int     `gorm:"default:0"`
	ReorderLevel int     `gorm:"default:5"`
	Unit         string  `gorm:"default:'pc'"`
	IsActive     bool    `gorm:"default:true"`

	StockEntries []StockEntry `gorm:"foreignKey:ProductID"`
	BillItems    []BillItem   `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// StockEntry is the audit trail for every stock movement. Quantity is the
// signed delta applied to the product's StockQty.
type StockEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity     int    `gorm:"not null"`
	Reason       string `gorm:"type:varchar(30);not null"` // purchase, sale, adjustment, wastage, bill_reversal
	Reference    string // bill id, supplier invoice, etc.
	BalanceAfter int    `gorm:"not null"`

	CreatedByUserID uuid.UUID `gorm:"type:uuid"`

	gorm.Model
}

func (e *StockEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
