// Package airports holds the static per-airport configuration: coordinates
// and fixed UTC offsets per daylight-saving season, with optional per-year
// DST window overrides. Loaded once and passed explicitly into components.
package airports

import "time"

// DSTWindow is a daylight-saving window for one year: Start inclusive,
// End exclusive, both local calendar dates at midnight UTC.
type DSTWindow struct {
	Start time.Time
	End   time.Time
}

// Airport is one configured airport. Offsets are hours to add to UTC to get
// local time (negative across the US).
type Airport struct {
	ICAO         string
	Name         string
	Latitude     float64
	Longitude    float64
	OffsetSummer int
	OffsetWinter int
	// DSTOverrides replaces the default US rule for specific years.
	DSTOverrides map[int]DSTWindow
}

// Default is the fallback configuration for unrecognized airports.
var Default = Airport{
	ICAO:         "ZZZZ",
	Name:         "Unknown (US Eastern fallback)",
	OffsetSummer: -4,
	OffsetWinter: -5,
}

var table = []Airport{
	{ICAO: "KATL", Name: "Atlanta Hartsfield-Jackson", Latitude: 33.637, Longitude: -84.428, OffsetSummer: -4, OffsetWinter: -5},
	{ICAO: "KJFK", Name: "New York JFK", Latitude: 40.640, Longitude: -73.779, OffsetSummer: -4, OffsetWinter: -5},
	{ICAO: "KEWR", Name: "Newark Liberty", Latitude: 40.692, Longitude: -74.169, OffsetSummer: -4, OffsetWinter: -5},
	{ICAO: "KBOS", Name: "Boston Logan", Latitude: 42.363, Longitude: -71.006, OffsetSummer: -4, OffsetWinter: -5},
	{ICAO: "KORD", Name: "Chicago O'Hare", Latitude: 41.978, Longitude: -87.905, OffsetSummer: -5, OffsetWinter: -6},
	{ICAO: "KDFW", Name: "Dallas-Fort Worth", Latitude: 32.897, Longitude: -97.038, OffsetSummer: -5, OffsetWinter: -6},
	{ICAO: "KDEN", Name: "Denver International", Latitude: 39.862, Longitude: -104.673, OffsetSummer: -6, OffsetWinter: -7},
	// Arizona does not observe DST; both offsets match.
	{ICAO: "KPHX", Name: "Phoenix Sky Harbor", Latitude: 33.434, Longitude: -112.012, OffsetSummer: -7, OffsetWinter: -7},
	{ICAO: "KLAX", Name: "Los Angeles International", Latitude: 33.942, Longitude: -118.408, OffsetSummer: -7, OffsetWinter: -8},
	{ICAO: "KSFO", Name: "San Francisco International", Latitude: 37.619, Longitude: -122.375, OffsetSummer: -7, OffsetWinter: -8},
	{ICAO: "KSEA", Name: "Seattle-Tacoma", Latitude: 47.450, Longitude: -122.309, OffsetSummer: -7, OffsetWinter: -8},
}

// Lookup returns the configured airport for an ICAO identifier.
func Lookup(icao string) (Airport, bool) {
	for _, ap := range table {
		if ap.ICAO == icao {
			return ap, true
		}
	}
	return Airport{}, false
}
