// Package summaries consumes the upstream per-day arrival summaries that
// record, per local 15-minute touchdown slot, the aircraft that landed and
// their approach-timing milestones.
package summaries

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/analogwx/internal/models"
)

// Source yields the per-day summary for an airport and local date.
// A missing or malformed day returns (nil, nil): the day is skipped, never
// fatal.
type Source interface {
	DaySummary(airport string, date time.Time) (*models.DaySummary, error)
}

// DirSource reads summaries from <dir>/summaries/<airport>/<date>.json.
type DirSource struct {
	Dir string
}

// DaySummary implements Source.
func (s *DirSource) DaySummary(airport string, date time.Time) (*models.DaySummary, error) {
	path := filepath.Join(s.Dir, "summaries", airport, date.Format("2006-01-02")+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		log.Printf("summaries: read %s: %v", path, err)
		return nil, nil
	}
	return Parse(airport, date, data)
}

type summaryDoc struct {
	Overall struct {
		ByTouchdownTimeSlotLocal map[string]slotDoc `json:"byTouchdownTimeSlotLocal"`
	} `json:"overall"`
}

type slotDoc struct {
	Count     int           `json:"count"`
	Aircraft  []aircraftDoc `json:"aircraft"`
	GoArounds []goAroundDoc `json:"goArounds"`
}

type aircraftDoc struct {
	Type       string `json:"type"`
	Callsign   string `json:"callsign"`
	Icao       string `json:"icao"`
	Milestones struct {
		TimeFrom100nm *float64 `json:"timeFrom100nm"`
		TimeFrom50nm  *float64 `json:"timeFrom50nm"`
		TimeFrom20nm  *float64 `json:"timeFrom20nm"`
	} `json:"milestones"`
	Touchdown struct {
		UTC string `json:"utc"`
	} `json:"touchdown"`
}

type goAroundDoc struct {
	Callsign string `json:"callsign"`
	UTC      string `json:"utc"`
}

// Parse decodes one per-day summary document. Malformed JSON is treated as
// an absent day (logged), per the upstream contract.
func Parse(airport string, date time.Time, data []byte) (*models.DaySummary, error) {
	var doc summaryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("summaries: %s %s: malformed JSON, treating as absent: %v",
			airport, date.Format("2006-01-02"), err)
		return nil, nil
	}
	if len(doc.Overall.ByTouchdownTimeSlotLocal) == 0 {
		return nil, nil
	}

	summary := &models.DaySummary{
		Airport: airport,
		Date:    date,
		Slots:   make(map[string]models.SlotArrivals, len(doc.Overall.ByTouchdownTimeSlotLocal)),
	}
	for slot, sd := range doc.Overall.ByTouchdownTimeSlotLocal {
		sa := models.SlotArrivals{Count: sd.Count}
		for _, ac := range sd.Aircraft {
			arr := models.Arrival{
				Type:     ac.Type,
				Callsign: callsignOf(ac),
			}
			arr.Milestones.TimeFrom100nm = ac.Milestones.TimeFrom100nm
			arr.Milestones.TimeFrom50nm = ac.Milestones.TimeFrom50nm
			arr.Milestones.TimeFrom20nm = ac.Milestones.TimeFrom20nm
			if ac.Touchdown.UTC != "" {
				if t, err := time.Parse(time.RFC3339, ac.Touchdown.UTC); err == nil {
					arr.TouchdownUTC = t.UTC()
				}
			}
			sa.Aircraft = append(sa.Aircraft, arr)
		}
		for _, ga := range sd.GoArounds {
			g := models.GoAround{Callsign: ga.Callsign}
			if ga.UTC != "" {
				if t, err := time.Parse(time.RFC3339, ga.UTC); err == nil {
					g.TimeUTC = t.UTC()
				}
			}
			sa.GoArounds = append(sa.GoArounds, g)
		}
		if sa.Count == 0 {
			sa.Count = len(sa.Aircraft)
		}
		summary.Slots[slot] = sa
	}
	return summary, nil
}

func callsignOf(ac aircraftDoc) string {
	if ac.Callsign != "" {
		return ac.Callsign
	}
	return ac.Icao
}

// DurationMinutes returns the arrival duration in minutes, taken from the
// 50nm approach milestone, or false when the milestone is absent.
func DurationMinutes(a models.Arrival) (float64, bool) {
	if a.Milestones.TimeFrom50nm == nil {
		return 0, false
	}
	return *a.Milestones.TimeFrom50nm / 60, true
}

// lightTypes are small/light GA types excluded from the percentile pools of
// the lightweight artifacts, where their approach speeds would skew the
// jet-traffic distribution.
var lightTypes = map[string]bool{
	"C150": true, "C152": true, "C172": true, "C177": true, "C182": true,
	"C206": true, "C210": true, "P28A": true, "P28B": true, "PA28": true,
	"PA32": true, "PA44": true, "SR20": true, "SR22": true, "BE33": true,
	"BE35": true, "BE36": true, "DA40": true, "DA42": true, "M20P": true,
}

// IsLightType reports whether an aircraft type designator is a small/light
// type.
func IsLightType(t string) bool {
	return lightTypes[strings.ToUpper(strings.TrimSpace(t))]
}
