package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginningOfDay(t *testing.T) {
	at := time.Date(2025, 3, 15, 18, 45, 12, 999, time.UTC)
	got := BeginningOfDay(at)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 3, 15, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 5, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(end, end))
	assert.Equal(t, -5, DaysBetween(end, start))
}
