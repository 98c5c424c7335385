package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a prospective customer captured from the marketing funnel. A
// converted lead becomes a Salon with a pending activation key.
type Lead struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name      string `gorm:"not null"`
	SalonName string
	Phone     string `gorm:"not null"`
	Email     string
	City      string
	Source    string `gorm:"type:varchar(30);default:'website'"`
	Notes     string
	Status    string `gorm:"type:varchar(20);default:'new'"` // new, contacted, converted, lost

	ConvertedSalonID *uuid.UUID `gorm:"type:uuid"`

	gorm.Model
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ActivationKey bootstraps a new tenant's first login. Only the bcrypt hash
// is stored; the plaintext is shown once at generation time.
type ActivationKey struct {
	ID      uuid.UUID  `gorm:"type:uuid;primary_key"`
	SalonID *uuid.UUID `gorm:"type:uuid;index"` // pre-bound to a salon when issued from a lead

	KeyHash   string `gorm:"not null"`
	KeyPrefix string `gorm:"index;not null"` // first 8 chars, for lookup
	IssuedTo  string
	UsedAt    *time.Time
	ExpiresAt *time.Time

	gorm.Model
}

func (k *ActivationKey) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return
}

type Subscription struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Plan      string    `gorm:"type:varchar(20);default:'trial'"` // trial, basic, pro
	Status    string    `gorm:"type:varchar(20);default:'active'"` // active, expired, cancelled
	StartsAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`

	gorm.Model
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
