// Package daysituation builds the whole-day variant of the situation index:
// per-day arrival timelines and slot-condition timelines, indexed by which
// days exhibited a given flight category at a given slot. Matching whole
// days preserves the intraday traffic-pattern correlation that slot-only
// matching loses.
package daysituation

import (
	"log"
	"sort"
	"time"

	"github.com/lox/analogwx/internal/calendar"
	"github.com/lox/analogwx/internal/localtime"
	"github.com/lox/analogwx/internal/metrics"
	"github.com/lox/analogwx/internal/models"
	"github.com/lox/analogwx/internal/stats"
	"github.com/lox/analogwx/internal/summaries"
	"github.com/lox/analogwx/internal/wx"
	"github.com/lox/analogwx/internal/wxindex"
)

const (
	// ExamplesPerSlot is how many representative days each (slot, category)
	// keeps in the Example Days artifact.
	ExamplesPerSlot = 2
	// exampleMinArrivals is the minimum arrivals a day needs to qualify as
	// an example.
	exampleMinArrivals = 50
	// exampleCandidateScan bounds how many matching dates are examined per
	// (slot, category) before ranking.
	exampleCandidateScan = 15

	progressEvery = 30
)

// Builder assembles the day-situation index for one airport.
type Builder struct {
	Airport  string
	Resolver *localtime.Resolver
	Index    *wxindex.Index
	Source   summaries.Source

	MaxDiff time.Duration

	// ExcludeLight drops small/light aircraft from the whole-day duration
	// pool (the arrival timeline always keeps every aircraft).
	ExcludeLight bool
}

// Result is the built index plus run counters.
type Result struct {
	Index         models.DaySituationIndex
	DaysProcessed int
	DaysSkipped   int
}

// Build walks every date of the requested years that has a usable per-day
// summary.
func (b *Builder) Build(years []int) *Result {
	res := &Result{
		Index: models.DaySituationIndex{
			Airport:               b.Airport,
			Years:                 years,
			DaysByConditionAtTime: emptyConditionIndex(),
			DailyArrivals:         make(map[string]models.DaySituationEntry),
		},
	}

	for _, year := range years {
		for _, date := range calendar.DaysInYear(year) {
			summary, err := b.Source.DaySummary(b.Airport, date)
			if err != nil || summary == nil {
				res.DaysSkipped++
				metrics.DaysSkipped.WithLabelValues(b.Airport, "dayindex").Inc()
				continue
			}

			entry := b.buildDay(date, summary)
			dateKey := date.Format("2006-01-02")
			res.Index.DailyArrivals[dateKey] = entry

			for slot, cat := range entry.SlotCategories {
				if _, ok := res.Index.DaysByConditionAtTime[slot][cat]; ok {
					res.Index.DaysByConditionAtTime[slot][cat] = append(res.Index.DaysByConditionAtTime[slot][cat], dateKey)
				}
			}

			res.DaysProcessed++
			metrics.DaysProcessed.WithLabelValues(b.Airport, "dayindex").Inc()
			if res.DaysProcessed%progressEvery == 0 {
				log.Printf("dayindex: %s processed %d days", b.Airport, res.DaysProcessed)
			}
		}
	}

	log.Printf("dayindex: %s done: %d days processed, %d skipped",
		b.Airport, res.DaysProcessed, res.DaysSkipped)
	return res
}

// buildDay assembles one date's full timeline: arrivals sorted by local
// time, the 96-slot category timeline, and whole-day outcome stats.
func (b *Builder) buildDay(date time.Time, summary *models.DaySummary) models.DaySituationEntry {
	entry := models.DaySituationEntry{
		Date:           date.Format("2006-01-02"),
		Season:         string(b.Resolver.Season(date)),
		DayOfWeek:      date.Weekday().String(),
		SlotCategories: make(map[string]string, calendar.SlotsPerDay),
	}

	var pooled []float64
	goArounds := 0
	for slot, sa := range summary.Slots {
		for _, ac := range sa.Aircraft {
			min, ok := summaries.DurationMinutes(ac)
			if !ok {
				continue
			}
			entry.Arrivals = append(entry.Arrivals, models.DayArrival{
				LocalTime:   b.localTimeOf(ac, slot),
				DurationMin: stats.Round(min, 2),
				Callsign:    ac.Callsign,
				Type:        ac.Type,
			})
			if b.ExcludeLight && summaries.IsLightType(ac.Type) {
				continue
			}
			pooled = append(pooled, min)
		}
		goArounds += len(sa.GoArounds)
	}
	sort.Slice(entry.Arrivals, func(i, j int) bool {
		return entry.Arrivals[i].LocalTime < entry.Arrivals[j].LocalTime
	})

	for _, slot := range calendar.AllSlots() {
		entry.SlotCategories[slot] = string(b.slotCategory(date, slot))
	}

	l := stats.RoundLadder(stats.Compute(pooled), 2)
	entry.Stats = models.OutcomeStats{
		Count:     len(pooled),
		P10:       l.P10,
		P25:       l.P25,
		P50:       l.P50,
		P75:       l.P75,
		P90:       l.P90,
		P95:       l.P95,
		P99:       l.P99,
		GoArounds: goArounds,
	}
	return entry
}

// localTimeOf prefers the touchdown instant; an arrival without one reports
// the start of its slot.
func (b *Builder) localTimeOf(ac models.Arrival, slot string) string {
	if ac.TouchdownUTC.IsZero() {
		return slot
	}
	offset := b.Resolver.OffsetHours(ac.TouchdownUTC.UTC())
	local := ac.TouchdownUTC.UTC().Add(time.Duration(offset) * time.Hour)
	return local.Format("15:04")
}

func (b *Builder) slotCategory(date time.Time, slot string) wx.FlightCategory {
	utc, err := b.Resolver.UTCFor(date, slot)
	if err != nil {
		return wx.CategoryUnknown
	}
	obs := b.Index.Nearest(utc, b.MaxDiff)
	if obs == nil {
		return wx.CategoryUnknown
	}
	return wx.Categorize(*obs)
}

// emptyConditionIndex pre-populates every slot with the fixed four category
// keys so downstream consumers can rely on a total structure.
func emptyConditionIndex() map[string]map[string][]string {
	out := make(map[string]map[string][]string, calendar.SlotsPerDay)
	for _, slot := range calendar.AllSlots() {
		out[slot] = make(map[string][]string, len(wx.Categories))
		for _, cat := range wx.Categories {
			out[slot][string(cat)] = []string{}
		}
	}
	return out
}
