package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Roy42022p/Backend/pkg/timeutil"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(5 * time.Minute)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(5*time.Minute), s.Next(now))
}

func TestDailyAtSchedule_Next(t *testing.T) {
	s := NewDailyAtSchedule(9, 0, timeutil.MoscowTZ)

	// До 09:00 — сегодня в 09:00.
	before := time.Date(2026, 1, 15, 8, 30, 0, 0, timeutil.MoscowTZ)
	next := s.Next(before)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 0, 0, 0, timeutil.MoscowTZ), next)

	// Ровно в 09:00 — уже завтра: срабатывание строго после t.
	at := time.Date(2026, 1, 15, 9, 0, 0, 0, timeutil.MoscowTZ)
	next = s.Next(at)
	assert.Equal(t, time.Date(2026, 1, 16, 9, 0, 0, 0, timeutil.MoscowTZ), next)

	// После 09:00 — завтра.
	after := time.Date(2026, 1, 15, 21, 15, 0, 0, timeutil.MoscowTZ)
	next = s.Next(after)
	assert.Equal(t, time.Date(2026, 1, 16, 9, 0, 0, 0, timeutil.MoscowTZ), next)
}

func TestDailyAtSchedule_NextConvertsTimezone(t *testing.T) {
	s := NewDailyAtSchedule(9, 0, timeutil.MoscowTZ)

	// 05:00 UTC == 08:00 по Москве: ближайший запуск — сегодня 09:00 MSK.
	utc := time.Date(2026, 1, 15, 5, 0, 0, 0, time.UTC)
	next := s.Next(utc)
	assert.True(t, next.Equal(time.Date(2026, 1, 15, 9, 0, 0, 0, timeutil.MoscowTZ)))
}

func TestDailyAtSchedule_String(t *testing.T) {
	s := NewDailyAtSchedule(9, 5, timeutil.MoscowTZ)
	assert.Equal(t, "@daily 09:05 Europe/Moscow", s.String())
}
