// Package localtime converts between UTC instants and airport-local
// (date, slot) pairs using fixed per-season UTC offsets.
package localtime

import (
	"fmt"
	"log"
	"time"

	"github.com/lox/analogwx/internal/airports"
)

// Season names the daylight-saving side of the year.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// Resolver resolves UTC to and from local time for one airport.
type Resolver struct {
	airport airports.Airport
}

// New returns a resolver for an airport configuration.
func New(ap airports.Airport) *Resolver {
	return &Resolver{airport: ap}
}

// ForICAO resolves the airport table entry for icao. Unknown airports fall
// back to the default offsets with a logged warning.
func ForICAO(icao string) *Resolver {
	ap, ok := airports.Lookup(icao)
	if !ok {
		log.Printf("localtime: airport %s not in timezone table, using default offsets (%+d/%+d)",
			icao, airports.Default.OffsetSummer, airports.Default.OffsetWinter)
		ap = airports.Default
		ap.ICAO = icao
	}
	return &Resolver{airport: ap}
}

// Airport returns the resolved airport configuration.
func (r *Resolver) Airport() airports.Airport { return r.airport }

// dstWindow returns the daylight-saving window for a year: the per-airport
// override when present, else the US default of second Sunday of March to
// first Sunday of November.
func (r *Resolver) dstWindow(year int) airports.DSTWindow {
	if w, ok := r.airport.DSTOverrides[year]; ok {
		return w
	}
	return airports.DSTWindow{
		Start: nthWeekday(year, time.March, time.Sunday, 2),
		End:   nthWeekday(year, time.November, time.Sunday, 1),
	}
}

// Season classifies a local calendar date. The transition dates themselves
// count as summer on the way in and winter on the way out.
func (r *Resolver) Season(date time.Time) Season {
	w := r.dstWindow(date.Year())
	d := atMidnightUTC(date)
	if !d.Before(w.Start) && d.Before(w.End) {
		return SeasonSummer
	}
	return SeasonWinter
}

// OffsetHours returns the UTC offset in hours for a local calendar date.
func (r *Resolver) OffsetHours(date time.Time) int {
	if r.Season(date) == SeasonSummer {
		return r.airport.OffsetSummer
	}
	return r.airport.OffsetWinter
}

// UTCFor converts a local (date, slot) pair to the UTC instant at the start
// of the slot. The offset is taken from the local date.
func (r *Resolver) UTCFor(date time.Time, slot string) (time.Time, error) {
	hh, mm, err := parseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	offset := r.OffsetHours(date)
	local := time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, time.UTC)
	return local.Add(-time.Duration(offset) * time.Hour), nil
}

// Resolve converts a UTC instant to the airport-local calendar date, the
// 15-minute slot label containing it, and the season. The season is looked
// up by the UTC date, which is accurate except within a few hours of a DST
// transition.
func (r *Resolver) Resolve(t time.Time) (date time.Time, slot string, season Season) {
	utc := t.UTC()
	season = r.Season(atMidnightUTC(utc))
	offset := r.airport.OffsetWinter
	if season == SeasonSummer {
		offset = r.airport.OffsetSummer
	}
	local := utc.Add(time.Duration(offset) * time.Hour)
	date = atMidnightUTC(local)
	slot = SlotFor(local.Hour(), local.Minute())
	return date, slot, season
}

// SlotFor floors a local hour/minute to its 15-minute slot label.
func SlotFor(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, (minute/15)*15)
}

func parseSlot(slot string) (hh, mm int, err error) {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return 0, 0, fmt.Errorf("parse slot %q: %w", slot, err)
	}
	return t.Hour(), t.Minute(), nil
}

func atMidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the nth weekday of a month as a date at midnight UTC.
func nthWeekday(year int, month time.Month, day time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != day {
		t = t.AddDate(0, 0, 1)
	}
	return t.AddDate(0, 0, 7*(n-1))
}
