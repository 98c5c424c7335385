package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceLockDaysDefault(t *testing.T) {
	t.Setenv("ATTENDANCE_LOCK_DAYS", "")
	assert.Equal(t, 7, AttendanceLockDays())

	t.Setenv("ATTENDANCE_LOCK_DAYS", "14")
	assert.Equal(t, 14, AttendanceLockDays())

	t.Setenv("ATTENDANCE_LOCK_DAYS", "nope")
	assert.Equal(t, 7, AttendanceLockDays())
}

func TestCheckAttendanceEdit(t *testing.T) {
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name      string
		date      time.Time
		isAdmin   bool
		confirmed bool
		want      AttendanceEditDecision
	}{
		{"today is free to edit", day(0), false, false, AttendanceEditDecision{Allowed: true}},
		{"yesterday needs confirm", day(-1), false, false, AttendanceEditDecision{RequiresConfirmation: true}},
		{"yesterday confirmed", day(-1), false, true, AttendanceEditDecision{Allowed: true}},
		{"within window confirmed", day(-7), false, true, AttendanceEditDecision{Allowed: true}},
		{"past window locked for staff", day(-8), false, true, AttendanceEditDecision{Locked: true}},
		{"past window admin needs confirm", day(-8), true, false, AttendanceEditDecision{RequiresConfirmation: true}},
		{"past window admin confirmed", day(-8), true, true, AttendanceEditDecision{Allowed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAttendanceEdit(tt.date, now, 7, tt.isAdmin, tt.confirmed)
			assert.Equal(t, tt.want, got)
		})
	}
}
