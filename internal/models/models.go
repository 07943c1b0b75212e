package models

import "time"

// CloudGroup is one reported cloud layer from a METAR-derived observation.
type CloudGroup struct {
	Type   string   // FEW, SCT, BKN, OVC, VV
	Height *float64 // base height in feet AGL, nil when unreported
}

// WeatherObservation is a single point-in-time surface weather report.
// Numeric fields are nil when the upstream record carried no value.
type WeatherObservation struct {
	Time       time.Time
	Visibility *float64 // statute miles
	WindSpeed  *float64 // knots
	WindGust   *float64 // knots
	Clouds     []CloudGroup
	WxCodes    []string
}

// Milestones are approach-timing measurements in seconds, taken from the
// upstream per-day summary. TimeFrom50nm is the arrival duration used for
// percentile pools.
type Milestones struct {
	TimeFrom100nm *float64
	TimeFrom50nm  *float64
	TimeFrom20nm  *float64
}

// Arrival is one landed aircraft from an upstream per-day summary.
type Arrival struct {
	Type         string
	Callsign     string
	Milestones   Milestones
	TouchdownUTC time.Time
}

// GoAround is an aborted approach recorded by the upstream summary.
type GoAround struct {
	Callsign string
	TimeUTC  time.Time
}

// SlotArrivals holds the arrivals recorded for one local 15-minute slot.
type SlotArrivals struct {
	Count     int
	Aircraft  []Arrival
	GoArounds []GoAround
}

// DaySummary is the upstream per-day arrival summary for one airport and
// one local calendar date, keyed by local touchdown slot label.
type DaySummary struct {
	Airport string
	Date    time.Time
	Slots   map[string]SlotArrivals
}

// OutcomeStats is the percentile ladder over arrival durations, in minutes.
type OutcomeStats struct {
	Count     int     `json:"count"`
	P10       float64 `json:"p10"`
	P25       float64 `json:"p25"`
	P50       float64 `json:"p50"`
	P75       float64 `json:"p75"`
	P90       float64 `json:"p90"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
	GoArounds int     `json:"goArounds"`
}

// HolidayTag marks a date as on or near a fixed US holiday.
type HolidayTag struct {
	Key        string `json:"key"`
	OffsetDays int    `json:"offsetDays"`
}

// SituationRecord joins the weather state at one (local date, slot) with the
// arrival outcomes observed in that slot. Built once per run, never mutated.
type SituationRecord struct {
	Date               string       `json:"date"`
	Slot               string       `json:"slot"`
	Season             string       `json:"season"`
	DayOfWeek          string       `json:"dayOfWeek"`
	DayType            string       `json:"dayType"`
	Holiday            *HolidayTag  `json:"holiday,omitempty"`
	TimeOfDay          string       `json:"timeOfDay"`
	Category           string       `json:"category"`
	VisibilityCategory string       `json:"visibilityCategory"`
	CeilingCategory    string       `json:"ceilingCategory"`
	WindCategory       string       `json:"windCategory"`
	PrecipCategory     string       `json:"precipCategory"`
	Trend              string       `json:"trend"`
	LookbackIFR        bool         `json:"lookbackIFR"`
	LookbackLIFR       bool         `json:"lookbackLIFR"`
	VisibilitySM       *float64     `json:"visibilitySM,omitempty"`
	CeilingFt          *float64     `json:"ceilingFt,omitempty"`
	WindSpeedKt        *float64     `json:"windSpeedKt,omitempty"`
	WindGustKt         *float64     `json:"windGustKt,omitempty"`
	Stats              OutcomeStats `json:"stats"`

	// Durations holds the raw per-arrival durations in minutes so the
	// aggregation pass can pool them. Not serialized.
	Durations []float64 `json:"-"`
}

// AggregationBucket is the pooled outcome distribution for one composite
// grouping key.
type AggregationBucket struct {
	MatchCount     int     `json:"matchCount"`
	TotalArrivals  int     `json:"totalArrivals"`
	TotalGoArounds int     `json:"totalGoArounds"`
	GoAroundRate   float64 `json:"goAroundRate"`
	P10            float64 `json:"p10"`
	P25            float64 `json:"p25"`
	P50            float64 `json:"p50"`
	P75            float64 `json:"p75"`
	P90            float64 `json:"p90"`
}

// SituationIndex is the primary artifact: every matched (date, slot) record
// plus the composite-key aggregations.
type SituationIndex struct {
	Airport      string                       `json:"airport"`
	Years        []int                        `json:"years"`
	TotalSlots   int                          `json:"totalSlots"`
	Slots        []SituationRecord            `json:"slots"`
	Aggregations map[string]AggregationBucket `json:"aggregations"`
}

// DayArrival is one landed aircraft on a whole-day timeline.
type DayArrival struct {
	LocalTime   string  `json:"localTime"`
	DurationMin float64 `json:"durationMin"`
	Callsign    string  `json:"callsign,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// DaySituationEntry preserves the full intraday pattern for one date: the
// ordered arrival list, the 96-slot category timeline and whole-day stats.
type DaySituationEntry struct {
	Date           string            `json:"date"`
	Season         string            `json:"season"`
	DayOfWeek      string            `json:"dayOfWeek"`
	Arrivals       []DayArrival      `json:"arrivals"`
	SlotCategories map[string]string `json:"slotCategories"`
	Stats          OutcomeStats      `json:"stats"`
}

// DaySituationIndex maps "category at slot" to the historical dates that
// exhibited it, alongside the full per-day entries.
type DaySituationIndex struct {
	Airport               string                         `json:"airport"`
	Years                 []int                          `json:"years"`
	DaysByConditionAtTime map[string]map[string][]string `json:"daysByConditionAtTime"`
	DailyArrivals         map[string]DaySituationEntry   `json:"dailyArrivals"`
}

// SlotCategoryStats is the lightweight per-(slot, category) summary.
type SlotCategoryStats struct {
	MatchCount    int     `json:"matchCount"`
	TotalArrivals int     `json:"totalArrivals"`
	P10           float64 `json:"p10"`
	P25           float64 `json:"p25"`
	P50           float64 `json:"p50"`
	P75           float64 `json:"p75"`
	P90           float64 `json:"p90"`
}

// ArrivalStatsIndex is the compact slot/category lookup artifact.
type ArrivalStatsIndex struct {
	Airport string                                  `json:"airport"`
	Years   []int                                   `json:"years"`
	Stats   map[string]map[string]SlotCategoryStats `json:"stats"`
}

// ExampleDay is one representative historical day for a (slot, category).
type ExampleDay struct {
	Date         string            `json:"date"`
	Category     string            `json:"category"`
	P50          float64           `json:"p50"`
	ArrivalCount int               `json:"arrivalCount"`
	Weather      map[string]string `json:"weather"`
}

// ExampleDaysIndex shortlists representative days per (slot, category).
type ExampleDaysIndex struct {
	Airport         string                             `json:"airport"`
	Years           []int                              `json:"years"`
	ExamplesPerSlot int                                `json:"examplesPerSlot"`
	Examples        map[string]map[string][]ExampleDay `json:"examples"`
}
