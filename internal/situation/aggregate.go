package situation

import (
	"fmt"

	"github.com/lox/analogwx/internal/calendar"
	"github.com/lox/analogwx/internal/models"
	"github.com/lox/analogwx/internal/stats"
	"github.com/lox/analogwx/internal/wx"
)

// Two composite-key grouping schemes partition the records:
//
//	cat:<season>:<dayType>:<category>        combined flight category
//	vis:<season>:<timeOfDay>:<visCategory>   visibility category only
//
// A record contributes to a group only when it has at least one arrival
// duration; unknown categories never form a group.

type pool struct {
	matchCount int
	durations  []float64
	arrivals   int
	goArounds  int
}

// Aggregate partitions records under both key schemes and computes the
// pooled percentile distribution per group.
func Aggregate(records []models.SituationRecord) map[string]models.AggregationBucket {
	pools := make(map[string]*pool)

	add := func(key string, rec models.SituationRecord) {
		p := pools[key]
		if p == nil {
			p = &pool{}
			pools[key] = p
		}
		p.matchCount++
		p.durations = append(p.durations, rec.Durations...)
		p.arrivals += rec.Stats.Count
		p.goArounds += rec.Stats.GoArounds
	}

	for _, rec := range records {
		if len(rec.Durations) == 0 {
			continue
		}
		if rec.Category != string(wx.CategoryUnknown) {
			add(fmt.Sprintf("cat:%s:%s:%s", rec.Season, rec.DayType, rec.Category), rec)
		}
		if rec.VisibilityCategory != string(wx.CategoryUnknown) {
			add(fmt.Sprintf("vis:%s:%s:%s", rec.Season, rec.TimeOfDay, rec.VisibilityCategory), rec)
		}
	}

	out := make(map[string]models.AggregationBucket, len(pools))
	for key, p := range pools {
		l := stats.RoundLadder(stats.Compute(p.durations), 2)
		bucket := models.AggregationBucket{
			MatchCount:     p.matchCount,
			TotalArrivals:  p.arrivals,
			TotalGoArounds: p.goArounds,
			P10:            l.P10,
			P25:            l.P25,
			P50:            l.P50,
			P75:            l.P75,
			P90:            l.P90,
		}
		if p.arrivals > 0 {
			bucket.GoAroundRate = stats.Round(float64(p.goArounds)/float64(p.arrivals), 4)
		}
		out[key] = bucket
	}
	return out
}

// BuildIndex assembles the Situation Index artifact.
func BuildIndex(airport string, years []int, records []models.SituationRecord) models.SituationIndex {
	return models.SituationIndex{
		Airport:      airport,
		Years:        years,
		TotalSlots:   calendar.SlotsPerDay,
		Slots:        records,
		Aggregations: Aggregate(records),
	}
}

// BuildArrivalStats assembles the lightweight per-(slot, category) lookup.
// Every slot appears, even when empty; categories are only ever the fixed
// four.
func BuildArrivalStats(airport string, years []int, records []models.SituationRecord) models.ArrivalStatsIndex {
	type slotCat struct {
		slot string
		cat  string
	}
	pools := make(map[slotCat]*pool)

	for _, rec := range records {
		if len(rec.Durations) == 0 || rec.Category == string(wx.CategoryUnknown) {
			continue
		}
		key := slotCat{slot: rec.Slot, cat: rec.Category}
		p := pools[key]
		if p == nil {
			p = &pool{}
			pools[key] = p
		}
		p.matchCount++
		p.durations = append(p.durations, rec.Durations...)
		p.arrivals += rec.Stats.Count
	}

	out := models.ArrivalStatsIndex{
		Airport: airport,
		Years:   years,
		Stats:   make(map[string]map[string]models.SlotCategoryStats, calendar.SlotsPerDay),
	}
	for _, slot := range calendar.AllSlots() {
		out.Stats[slot] = make(map[string]models.SlotCategoryStats)
		for _, cat := range wx.Categories {
			p, ok := pools[slotCat{slot: slot, cat: string(cat)}]
			if !ok {
				continue
			}
			l := stats.RoundLadder(stats.Compute(p.durations), 2)
			out.Stats[slot][string(cat)] = models.SlotCategoryStats{
				MatchCount:    p.matchCount,
				TotalArrivals: p.arrivals,
				P10:           l.P10,
				P25:           l.P25,
				P50:           l.P50,
				P75:           l.P75,
				P90:           l.P90,
			}
		}
	}
	return out
}
