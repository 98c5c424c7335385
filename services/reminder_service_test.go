package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateWindowConditionSameMonth(t *testing.T) {
	from := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	cond, args := DateWindowCondition("birthday", from, to)

	assert.Equal(t, "EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) BETWEEN ? AND ?", cond)
	assert.Equal(t, []interface{}{8, 10, 17}, args)
}

func TestDateWindowConditionCrossesMonthBoundary(t *testing.T) {
	// Aug 28 + 7 days lands on Sep 4; a single BETWEEN 28 AND 4 matches nothing
	from := time.Date(2025, 8, 28, 9, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	cond, args := DateWindowCondition("anniversary", from, to)

	assert.Equal(t,
		"(EXTRACT(MONTH FROM anniversary) = ? AND EXTRACT(DAY FROM anniversary) >= ?) OR (EXTRACT(MONTH FROM anniversary) = ? AND EXTRACT(DAY FROM anniversary) <= ?)",
		cond)
	assert.Equal(t, []interface{}{8, 28, 9, 4}, args)
}

func TestDateWindowConditionCrossesYearBoundary(t *testing.T) {
	from := time.Date(2025, 12, 29, 9, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	_, args := DateWindowCondition("birthday", from, to)

	assert.Equal(t, []interface{}{12, 29, 1, 5}, args)
}
