// Package calendar enumerates the fixed daily slot grid and classifies
// dates by day type against the fixed US holiday table.
package calendar

import (
	"time"

	"github.com/lox/analogwx/internal/localtime"
)

// SlotsPerDay is the fixed number of 15-minute slots in a local day.
const SlotsPerDay = 96

// AllSlots returns the ordered slot labels "00:00" through "23:45".
func AllSlots() []string {
	slots := make([]string, 0, SlotsPerDay)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 15 {
			slots = append(slots, localtime.SlotFor(h, m))
		}
	}
	return slots
}

// DaysInYear returns every calendar date of a year at midnight UTC.
func DaysInYear(year int) []time.Time {
	var days []time.Time
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayType classifies a date for grouping purposes.
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeHoliday DayType = "holiday"
)

// HolidayMatch reports a holiday within the ±2 day offset window.
type HolidayMatch struct {
	Key        string
	OffsetDays int
}

// holidayOffsetWindow is the number of days either side of a holiday that
// still counts as holiday-adjacent traffic.
const holidayOffsetWindow = 2

type holidayRule struct {
	key  string
	date func(year int) time.Time
}

var holidayRules = []holidayRule{
	{"newYears", func(y int) time.Time { return date(y, time.January, 1) }},
	{"mlkDay", func(y int) time.Time { return nthWeekday(y, time.January, time.Monday, 3) }},
	{"presidentsDay", func(y int) time.Time { return nthWeekday(y, time.February, time.Monday, 3) }},
	{"memorialDay", func(y int) time.Time { return lastWeekday(y, time.May, time.Monday) }},
	{"independenceDay", func(y int) time.Time { return date(y, time.July, 4) }},
	{"laborDay", func(y int) time.Time { return nthWeekday(y, time.September, time.Monday, 1) }},
	{"thanksgiving", func(y int) time.Time { return nthWeekday(y, time.November, time.Thursday, 4) }},
	{"christmas", func(y int) time.Time { return date(y, time.December, 25) }},
}

// HolidayOffset returns the closest holiday within ±2 days of d, or nil.
// Adjacent years are checked so late December matches the next New Year's.
func HolidayOffset(d time.Time) *HolidayMatch {
	d = date(d.Year(), d.Month(), d.Day())
	var best *HolidayMatch
	for yr := d.Year() - 1; yr <= d.Year()+1; yr++ {
		for _, rule := range holidayRules {
			offset := int(d.Sub(rule.date(yr)).Hours() / 24)
			if offset < -holidayOffsetWindow || offset > holidayOffsetWindow {
				continue
			}
			if best == nil || abs(offset) < abs(best.OffsetDays) {
				best = &HolidayMatch{Key: rule.key, OffsetDays: offset}
			}
		}
	}
	return best
}

// ClassifyDay returns the day type: holiday when within the offset window,
// else weekend or weekday.
func ClassifyDay(d time.Time) DayType {
	if HolidayOffset(d) != nil {
		return DayTypeHoliday
	}
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeWeekend
	}
	return DayTypeWeekday
}

// TimeOfDay buckets a slot label into a coarse traffic period.
func TimeOfDay(slot string) string {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return "night"
	}
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 8:
		return "earlyMorning"
	case hour >= 8 && hour < 11:
		return "morning"
	case hour >= 11 && hour < 14:
		return "midday"
	case hour >= 14 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func nthWeekday(year int, month time.Month, day time.Weekday, n int) time.Time {
	t := date(year, month, 1)
	for t.Weekday() != day {
		t = t.AddDate(0, 0, 1)
	}
	return t.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(year int, month time.Month, day time.Weekday) time.Time {
	t := date(year, month+1, 1).AddDate(0, 0, -1)
	for t.Weekday() != day {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
