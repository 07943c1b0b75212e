package daysituation

import (
	"fmt"
	"sort"

	"github.com/lox/analogwx/internal/models"
	"github.com/lox/analogwx/internal/stats"
)

// BuildExampleDays derives the representative-days shortlist from a built
// day-situation index. Per (slot, category), the first exampleCandidateScan
// matching dates are examined, days under exampleMinArrivals arrivals are
// filtered out, and the busiest ExamplesPerSlot survivors are kept.
func BuildExampleDays(idx models.DaySituationIndex) models.ExampleDaysIndex {
	out := models.ExampleDaysIndex{
		Airport:         idx.Airport,
		Years:           idx.Years,
		ExamplesPerSlot: ExamplesPerSlot,
		Examples:        make(map[string]map[string][]models.ExampleDay, len(idx.DaysByConditionAtTime)),
	}

	for slot, byCat := range idx.DaysByConditionAtTime {
		out.Examples[slot] = make(map[string][]models.ExampleDay, len(byCat))
		for cat, dates := range byCat {
			candidates := dates
			if len(candidates) > exampleCandidateScan {
				candidates = candidates[:exampleCandidateScan]
			}

			var picks []models.ExampleDay
			for _, date := range candidates {
				entry, ok := idx.DailyArrivals[date]
				if !ok || len(entry.Arrivals) < exampleMinArrivals {
					continue
				}
				picks = append(picks, models.ExampleDay{
					Date:         date,
					Category:     cat,
					P50:          stats.Round(entry.Stats.P50, 1),
					ArrivalCount: len(entry.Arrivals),
					Weather:      hourlyWeather(entry),
				})
			}

			sort.Slice(picks, func(i, j int) bool {
				if picks[i].ArrivalCount != picks[j].ArrivalCount {
					return picks[i].ArrivalCount > picks[j].ArrivalCount
				}
				return picks[i].Date < picks[j].Date
			})
			if len(picks) > ExamplesPerSlot {
				picks = picks[:ExamplesPerSlot]
			}
			out.Examples[slot][cat] = picks
		}
	}
	return out
}

// hourlyWeather samples the day's slot timeline at each top-of-hour slot.
func hourlyWeather(entry models.DaySituationEntry) map[string]string {
	out := make(map[string]string, 24)
	for h := 0; h < 24; h++ {
		slot := fmt.Sprintf("%02d:00", h)
		if cat, ok := entry.SlotCategories[slot]; ok {
			out[slot] = cat
		}
	}
	return out
}
