package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 1, 15, 23, 30, 0, 0, MoscowTZ)
	assert.Equal(t, "2026-01-15", FormatDate(d))

	// 22:00 UTC — уже следующий день по Москве.
	utc := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-16", FormatDate(utc))
}

func TestDaysBetween(t *testing.T) {
	from := Date(2026, 1, 15)
	assert.Equal(t, 0, DaysBetween(from, Date(2026, 1, 15)))
	assert.Equal(t, 1, DaysBetween(from, Date(2026, 1, 16)))
	assert.Equal(t, 3, DaysBetween(from, Date(2026, 1, 18)))
	assert.Equal(t, -1, DaysBetween(from, Date(2026, 1, 14)))

	// Считаются календарные дни, а не 24-часовые интервалы.
	lateEvening := time.Date(2026, 1, 15, 23, 59, 0, 0, MoscowTZ)
	earlyMorning := time.Date(2026, 1, 16, 0, 1, 0, 0, MoscowTZ)
	assert.Equal(t, 1, DaysBetween(lateEvening, earlyMorning))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, MoscowTZ)
	exam := Date(2026, 1, 18)
	assert.Equal(t, 3, DaysUntil(exam, now))
	assert.Equal(t, 0, DaysUntil(Date(2026, 1, 15), now))
}
