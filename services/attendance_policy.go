// services/attendance_policy.go
package services

import (
	"os"
	"strconv"
	"time"

	"salonx-backend/utils"
)

const defaultAttendanceLockDays = 7

// AttendanceLockDays reads the edit-lock window, defaulting to a week.
func AttendanceLockDays() int {
	if env := os.Getenv("ATTENDANCE_LOCK_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d > 0 {
			return d
		}
	}
	return defaultAttendanceLockDays
}

// AttendanceEditDecision is the outcome of checking an edit request against
// the lock policy.
type AttendanceEditDecision struct {
	Allowed              bool
	Locked               bool // past the lock window and the caller is not admin
	RequiresConfirmation bool // past date edited without the confirm flag
}

// CheckAttendanceEdit applies the edit rules: records older than the lock
// window can only be changed by admin sessions, and any edit to a day
// before today must carry the confirm flag.
func CheckAttendanceEdit(recordDate, now time.Time, lockDays int, isAdmin, confirmed bool) AttendanceEditDecision {
	age := utils.DaysBetween(recordDate, now)

	if age > lockDays && !isAdmin {
		return AttendanceEditDecision{Locked: true}
	}
	if age > 0 && !confirmed {
		return AttendanceEditDecision{RequiresConfirmation: true}
	}
	return AttendanceEditDecision{Allowed: true}
}
