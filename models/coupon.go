package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coupon struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salon_coupon,priority:1"`

	Code         string  `gorm:"not null;uniqueIndex:idx_salon_coupon,priority:2"`
	Description  string
	DiscountType string  `gorm:"type:varchar(10);not null"` // 'flat' or 'percent'
	Value        float64 `gorm:"type:decimal(10,2);not null"`
	MinAmount    float64 `gorm:"type:decimal(10,2);default:0.0"`
	MaxDiscount  float64 `gorm:"type:decimal(10,2);default:0.0"` // cap for percent coupons, 0 = no cap

	ValidFrom  *time.Time
	ValidUntil *time.Time
	UsageLimit int `gorm:"default:0"` // 0 = unlimited
	UsedCount  int `gorm:"default:0"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
