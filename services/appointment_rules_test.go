package services

import (
	"testing"
	"time"

	"salonx-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{models.AppointmentScheduled, models.AppointmentConfirmed},
		{models.AppointmentScheduled, models.AppointmentCancelled},
		{models.AppointmentScheduled, models.AppointmentNoShow},
		{models.AppointmentConfirmed, models.AppointmentCompleted},
		{models.AppointmentConfirmed, models.AppointmentCancelled},
		{models.AppointmentConfirmed, models.AppointmentNoShow},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{models.AppointmentScheduled, models.AppointmentCompleted},
		{models.AppointmentCompleted, models.AppointmentScheduled},
		{models.AppointmentCancelled, models.AppointmentConfirmed},
		{models.AppointmentNoShow, models.AppointmentCompleted},
		{models.AppointmentScheduled, models.AppointmentScheduled},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 6, 20, h, m, 0, 0, time.UTC)
	}

	// plain intersection
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 30), at(11, 30)))
	// containment
	assert.True(t, Overlaps(at(10, 0), at(12, 0), at(10, 30), at(11, 0)))
	// back to back does not conflict
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))
	// disjoint
	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(14, 0), at(15, 0)))
}
