// Package situation builds situation records, one per matched (date, slot),
// and aggregates them into the Situation Index and Arrival Stats Index
// artifacts.
package situation

import (
	"log"
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

// progressEvery is how many processed days pass between progress log lines.
const progressEvery = 30

// Builder walks every (date, slot) of the requested years, joining the
// weather state at the slot instant with the arrivals recorded for it.
type Builder struct {
	Airport  string
	Resolver *localtime.Resolver
	Index    *wxindex.Index
	Source   summaries.Source

	// MaxDiff and Lookback fall back to the wxindex defaults when zero.
	MaxDiff  time.Duration
	Lookback time.Duration

	// ExcludeLight drops small/light aircraft from the duration pools.
	// Used by the lightweight percentile artifacts.
	ExcludeLight bool
}

// Result carries the built records and the operational counters logged at
// the end of a run.
type Result struct {
	Records       []models.SituationRecord
	DaysProcessed int
	DaysSkipped   int
	SlotsMatched  int
	SlotsSkipped  int
}

// Build runs the batch pass, date by date, slot by slot.
func (b *Builder) Build(years []int) *Result {
	res := &Result{}
	slots := calendar.AllSlots()

	for _, year := range years {
		for _, date := range calendar.DaysInYear(year) {
			summary, err := b.Source.DaySummary(b.Airport, date)
			if err != nil || summary == nil {
				res.DaysSkipped++
				metrics.DaysSkipped.WithLabelValues(b.Airport, "situation").Inc()
				continue
			}

			for _, slot := range slots {
				rec, ok := b.buildSlot(date, slot, summary)
				if !ok {
					res.SlotsSkipped++
					metrics.SlotsSkipped.WithLabelValues(b.Airport).Inc()
					continue
				}
				res.Records = append(res.Records, rec)
				res.SlotsMatched++
			}

			res.DaysProcessed++
			metrics.DaysProcessed.WithLabelValues(b.Airport, "situation").Inc()
			if res.DaysProcessed%progressEvery == 0 {
				log.Printf("situation: %s processed %d days (%d records, %d slots skipped)",
					b.Airport, res.DaysProcessed, len(res.Records), res.SlotsSkipped)
			}
		}
	}

	log.Printf("situation: %s done: %d days processed, %d skipped, %d records, %d slots unmatched",
		b.Airport, res.DaysProcessed, res.DaysSkipped, len(res.Records), res.SlotsSkipped)
	return res
}

// buildSlot resolves one (date, slot) to a situation record. A slot with no
// observation within tolerance is skipped entirely.
func (b *Builder) buildSlot(date time.Time, slot string, summary *models.DaySummary) (models.SituationRecord, bool) {
	utc, err := b.Resolver.UTCFor(date, slot)
	if err != nil {
		return models.SituationRecord{}, false
	}

	obs := b.Index.Nearest(utc, b.MaxDiff)
	if obs == nil {
		return models.SituationRecord{}, false
	}

	lookback := b.Index.Lookback(utc, b.Lookback)
	worstIFR, worstLIFR := lookbackFlags(lookback)

	ceiling := wx.ExtractCeiling(*obs)
	visCat := wx.CategorizeVisibility(obs.Visibility)
	ceilCat := wx.CategorizeCeiling(ceiling)

	rec := models.SituationRecord{
		Date:               date.Format("2006-01-02"),
		Slot:               slot,
		Season:             string(b.Resolver.Season(date)),
		DayOfWeek:          date.Weekday().String(),
		DayType:            string(calendar.ClassifyDay(date)),
		TimeOfDay:          calendar.TimeOfDay(slot),
		Category:           string(wx.Combine(visCat, ceilCat)),
		VisibilityCategory: string(visCat),
		CeilingCategory:    string(ceilCat),
		WindCategory:       string(wx.CategorizeWind(obs.WindSpeed, obs.WindGust)),
		PrecipCategory:     string(wx.CategorizePrecip(obs.WxCodes)),
		Trend:              string(wx.VisibilityTrend(lookback, obs.Visibility)),
		LookbackIFR:        worstIFR,
		LookbackLIFR:       worstLIFR,
		VisibilitySM:       obs.Visibility,
		CeilingFt:          ceiling,
		WindSpeedKt:        obs.WindSpeed,
		WindGustKt:         obs.WindGust,
	}
	if hol := calendar.HolidayOffset(date); hol != nil {
		rec.Holiday = &models.HolidayTag{Key: hol.Key, OffsetDays: hol.OffsetDays}
	}

	sa := summary.Slots[slot]
	rec.Durations = b.durations(sa)
	rec.Stats = outcomeStats(rec.Durations, len(sa.GoArounds))
	return rec, true
}

// durations extracts the per-arrival durations in minutes for a slot.
func (b *Builder) durations(sa models.SlotArrivals) []float64 {
	var out []float64
	for _, ac := range sa.Aircraft {
		if b.ExcludeLight && summaries.IsLightType(ac.Type) {
			continue
		}
		if min, ok := summaries.DurationMinutes(ac); ok {
			out = append(out, min)
		}
	}
	return out
}

// lookbackFlags reports whether any single lookback observation was
// independently at or below IFR / LIFR thresholds.
func lookbackFlags(lookback []models.WeatherObservation) (ifr, lifr bool) {
	for _, obs := range lookback {
		ceiling := wx.ExtractCeiling(obs)
		if obs.Visibility != nil {
			if *obs.Visibility < 3 {
				ifr = true
			}
			if *obs.Visibility < 1 {
				lifr = true
			}
		}
		if ceiling != nil {
			if *ceiling < 1000 {
				ifr = true
			}
			if *ceiling < 500 {
				lifr = true
			}
		}
	}
	return ifr, lifr
}

// outcomeStats fills the per-record ladder, rounded to two decimal places.
func outcomeStats(durations []float64, goArounds int) models.OutcomeStats {
	l := stats.RoundLadder(stats.Compute(durations), 2)
	return models.OutcomeStats{
		Count:     len(durations),
		P10:       l.P10,
		P25:       l.P25,
		P50:       l.P50,
		P75:       l.P75,
		P90:       l.P90,
		P95:       l.P95,
		P99:       l.P99,
		GoArounds: goArounds,
	}
}
