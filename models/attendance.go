package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attendance struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_day,priority:1"`

	Date     time.Time `gorm:"type:date;not null;uniqueIndex:idx_staff_day,priority:2"`
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   string `gorm:"type:varchar(20);default:'present'"` // present, absent, half_day, leave
	Notes    string

	EditedByUserID *uuid.UUID `gorm:"type:uuid"`

	Staff User `gorm:"foreignKey:StaffID"`

	gorm.Model
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
