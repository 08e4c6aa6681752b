// Package timeutil provides timezone utilities for Moscow time (UTC+3).
// All attestation dates and reminder schedules are interpreted in the
// college's local timezone. No external dependencies - uses only standard library.
package timeutil

import "time"

// MoscowTZ is the Moscow timezone (UTC+3, no DST since 2014).
var MoscowTZ = time.FixedZone("Europe/Moscow", 3*60*60)

// Now returns the current time in Moscow timezone.
func Now() time.Time {
	return time.Now().In(MoscowTZ)
}

// ToMoscow converts a time to Moscow timezone.
func ToMoscow(t time.Time) time.Time {
	return t.In(MoscowTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Moscow timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToMoscow(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, MoscowTZ)
}

// Date creates a time in Moscow timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, MoscowTZ)
}

// FormatDate formats a time as a calendar date "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return ToMoscow(t).Format("2006-01-02")
}

// DaysBetween returns the number of whole days from 'from' to 'to',
// comparing calendar days rather than 24-hour intervals.
func DaysBetween(from, to time.Time) int {
	a := StartOfDay(from)
	b := StartOfDay(to)
	return int(b.Sub(a).Hours() / 24)
}

// DaysUntil returns the number of whole days from today until t.
func DaysUntil(t time.Time, now time.Time) int {
	return DaysBetween(now, t)
}
