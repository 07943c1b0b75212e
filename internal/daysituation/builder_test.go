package daysituation

import (
	"testing"
	"time"

	"k8s.io/utils/ptr"

	"github.com/lox/analogwx/internal/airports"
	"github.com/lox/analogwx/internal/calendar"
	"github.com/lox/analogwx/internal/localtime"
	"github.com/lox/analogwx/internal/models"
	"github.com/lox/analogwx/internal/wx"
	"github.com/lox/analogwx/internal/wxindex"
)

var utcAirport = airports.Airport{ICAO: "TEST", OffsetSummer: 0, OffsetWinter: 0}

type stubSource struct {
	days map[string]*models.DaySummary
}

func (s *stubSource) DaySummary(airport string, date time.Time) (*models.DaySummary, error) {
	return s.days[date.Format("2006-01-02")], nil
}

func arrival(typ string, secsFrom50nm float64, touchdown time.Time) models.Arrival {
	a := models.Arrival{Type: typ, Callsign: "TST123", TouchdownUTC: touchdown}
	a.Milestones.TimeFrom50nm = ptr.To(secsFrom50nm)
	return a
}

func TestBuild(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	idx := wxindex.Build([]models.WeatherObservation{
		{Time: date.Add(8 * time.Hour), Visibility: ptr.To(10.0)},
		{Time: date.Add(14 * time.Hour), Visibility: ptr.To(2.0)},
	})

	summary := &models.DaySummary{
		Airport: "TEST",
		Date:    date,
		Slots: map[string]models.SlotArrivals{
			"14:00": {Aircraft: []models.Arrival{arrival("A320", 960, date.Add(14*time.Hour+5*time.Minute))}},
			"08:00": {Aircraft: []models.Arrival{arrival("B738", 900, date.Add(8*time.Hour+2*time.Minute))}},
		},
	}

	b := &Builder{
		Airport:  "TEST",
		Resolver: localtime.New(utcAirport),
		Index:    idx,
		Source:   &stubSource{days: map[string]*models.DaySummary{"2024-07-01": summary}},
	}
	res := b.Build([]int{2024})

	if res.DaysProcessed != 1 || res.DaysSkipped != 365 {
		t.Errorf("processed/skipped = %d/%d, want 1/365", res.DaysProcessed, res.DaysSkipped)
	}

	entry, ok := res.Index.DailyArrivals["2024-07-01"]
	if !ok {
		t.Fatal("missing daily entry")
	}
	if entry.DayOfWeek != "Monday" || entry.Season != "summer" {
		t.Errorf("entry = %s %s, want Monday summer", entry.DayOfWeek, entry.Season)
	}

	// Arrivals sorted by local time regardless of slot map order.
	if len(entry.Arrivals) != 2 {
		t.Fatalf("arrivals = %d, want 2", len(entry.Arrivals))
	}
	if entry.Arrivals[0].LocalTime != "08:02" || entry.Arrivals[1].LocalTime != "14:05" {
		t.Errorf("arrival order = %s, %s", entry.Arrivals[0].LocalTime, entry.Arrivals[1].LocalTime)
	}
	if entry.Arrivals[0].DurationMin != 15 {
		t.Errorf("duration = %v, want 15", entry.Arrivals[0].DurationMin)
	}

	// Full 96-slot category timeline; slots near the observations carry a
	// real category, the rest are unknown.
	if len(entry.SlotCategories) != calendar.SlotsPerDay {
		t.Errorf("slot categories = %d, want %d", len(entry.SlotCategories), calendar.SlotsPerDay)
	}
	if got := entry.SlotCategories["08:00"]; got != "VFR" {
		t.Errorf("08:00 category = %q, want VFR", got)
	}
	if got := entry.SlotCategories["14:00"]; got != "IFR" {
		t.Errorf("14:00 category = %q, want IFR", got)
	}
	if got := entry.SlotCategories["03:00"]; got != string(wx.CategoryUnknown) {
		t.Errorf("03:00 category = %q, want unknown", got)
	}

	if entry.Stats.Count != 2 {
		t.Errorf("stats count = %d, want 2", entry.Stats.Count)
	}

	// The condition index records this date under VFR at 08:00.
	dates := res.Index.DaysByConditionAtTime["08:00"]["VFR"]
	if len(dates) != 1 || dates[0] != "2024-07-01" {
		t.Errorf("daysByConditionAtTime[08:00][VFR] = %v", dates)
	}
}

func TestBuildConditionIndexIsTotal(t *testing.T) {
	b := &Builder{
		Airport:  "TEST",
		Resolver: localtime.New(utcAirport),
		Index:    wxindex.Build(nil),
		Source:   &stubSource{},
	}
	res := b.Build([]int{2024})

	if len(res.Index.DaysByConditionAtTime) != calendar.SlotsPerDay {
		t.Fatalf("condition index has %d slots, want %d", len(res.Index.DaysByConditionAtTime), calendar.SlotsPerDay)
	}
	for slot, byCat := range res.Index.DaysByConditionAtTime {
		if len(byCat) != len(wx.Categories) {
			t.Fatalf("slot %s has %d categories, want %d", slot, len(byCat), len(wx.Categories))
		}
		for cat, dates := range byCat {
			if dates == nil {
				t.Fatalf("slot %s category %s is nil, want empty list", slot, cat)
			}
		}
	}
}

func TestBuildExcludeLightKeepsTimeline(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	idx := wxindex.Build([]models.WeatherObservation{
		{Time: date.Add(8 * time.Hour), Visibility: ptr.To(10.0)},
	})

	summary := &models.DaySummary{
		Airport: "TEST",
		Date:    date,
		Slots: map[string]models.SlotArrivals{
			"08:00": {Aircraft: []models.Arrival{
				arrival("B738", 900, date.Add(8*time.Hour)),
				arrival("C172", 1800, date.Add(8*time.Hour+5*time.Minute)),
			}},
		},
	}

	b := &Builder{
		Airport:      "TEST",
		Resolver:     localtime.New(utcAirport),
		Index:        idx,
		Source:       &stubSource{days: map[string]*models.DaySummary{"2024-07-01": summary}},
		ExcludeLight: true,
	}
	entry := b.Build([]int{2024}).Index.DailyArrivals["2024-07-01"]

	// The timeline keeps every aircraft; only the duration pool drops the
	// light type.
	if len(entry.Arrivals) != 2 {
		t.Errorf("arrivals = %d, want 2", len(entry.Arrivals))
	}
	if entry.Stats.Count != 1 {
		t.Errorf("stats count = %d, want 1", entry.Stats.Count)
	}
}
