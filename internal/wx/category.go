package wx

import (
	"sort"
	"strings"

	"github.com/lox/analogwx/internal/models"
)

// FlightCategory is the FAA-style ordinal flight condition classification.
type FlightCategory string

const (
	CategoryLIFR      FlightCategory = "LIFR"
	CategoryIFR       FlightCategory = "IFR"
	CategoryMVFR      FlightCategory = "MVFR"
	CategoryVFR       FlightCategory = "VFR"
	CategoryUnlimited FlightCategory = "unlimited"
	CategoryUnknown   FlightCategory = "unknown"
)

// rank orders categories worst to best; unlimited and unknown sort as best
// so that Combine always prefers a real reading.
var rank = map[FlightCategory]int{
	CategoryLIFR:      0,
	CategoryIFR:       1,
	CategoryMVFR:      2,
	CategoryVFR:       3,
	CategoryUnlimited: 4,
	CategoryUnknown:   5,
}

// Categories is the fixed four-value universe used by output artifacts.
var Categories = []FlightCategory{CategoryLIFR, CategoryIFR, CategoryMVFR, CategoryVFR}

// CategorizeVisibility maps a visibility in statute miles to a category.
func CategorizeVisibility(vis *float64) FlightCategory {
	if vis == nil {
		return CategoryUnknown
	}
	switch v := *vis; {
	case v >= 5:
		return CategoryVFR
	case v >= 3:
		return CategoryMVFR
	case v >= 1:
		return CategoryIFR
	default:
		return CategoryLIFR
	}
}

// CategorizeCeiling maps a ceiling in feet AGL to a category. A nil ceiling
// means no broken or overcast layer was reported.
func CategorizeCeiling(ceiling *float64) FlightCategory {
	if ceiling == nil {
		return CategoryUnlimited
	}
	switch c := *ceiling; {
	case c >= 3000:
		return CategoryVFR
	case c >= 1000:
		return CategoryMVFR
	case c >= 500:
		return CategoryIFR
	default:
		return CategoryLIFR
	}
}

// Combine returns the worse of the visibility and ceiling categories.
// Unknown or unlimited readings defer to the other value; when neither
// carries information the result is unknown.
func Combine(vis, ceiling FlightCategory) FlightCategory {
	visEmpty := vis == CategoryUnknown || vis == CategoryUnlimited
	ceilEmpty := ceiling == CategoryUnknown || ceiling == CategoryUnlimited
	switch {
	case visEmpty && ceilEmpty:
		return CategoryUnknown
	case visEmpty:
		return ceiling
	case ceilEmpty:
		return vis
	case rank[ceiling] < rank[vis]:
		return ceiling
	default:
		return vis
	}
}

// ExtractCeiling returns the lowest reported broken, overcast or vertical
// visibility layer, or nil if the observation has none.
func ExtractCeiling(obs models.WeatherObservation) *float64 {
	var ceiling *float64
	for _, layer := range obs.Clouds {
		switch strings.ToUpper(strings.TrimSpace(layer.Type)) {
		case "BKN", "OVC", "VV":
			if layer.Height == nil {
				continue
			}
			if ceiling == nil || *layer.Height < *ceiling {
				h := *layer.Height
				ceiling = &h
			}
		}
	}
	return ceiling
}

// Categorize derives the combined flight category for an observation.
func Categorize(obs models.WeatherObservation) FlightCategory {
	return Combine(CategorizeVisibility(obs.Visibility), CategorizeCeiling(ExtractCeiling(obs)))
}

// WindCategory buckets sustained wind and gusts in knots.
type WindCategory string

const (
	WindCalm     WindCategory = "calm"
	WindModerate WindCategory = "moderate"
	WindWindy    WindCategory = "windy"
	WindStrong   WindCategory = "strong"
	WindUnknown  WindCategory = "unknown"
)

// CategorizeWind buckets an observation's wind. Gusts promote the bucket by
// one step when they exceed the sustained speed by 10 knots or more.
func CategorizeWind(speed, gust *float64) WindCategory {
	if speed == nil {
		return WindUnknown
	}
	var cat WindCategory
	switch v := *speed; {
	case v < 7:
		cat = WindCalm
	case v < 15:
		cat = WindModerate
	case v < 25:
		cat = WindWindy
	default:
		cat = WindStrong
	}
	if gust != nil && *gust-*speed >= 10 {
		switch cat {
		case WindCalm:
			cat = WindModerate
		case WindModerate:
			cat = WindWindy
		case WindWindy:
			cat = WindStrong
		}
	}
	return cat
}

// PrecipCategory classifies present-weather token sets.
type PrecipCategory string

const (
	PrecipThunderstorm PrecipCategory = "thunderstorm"
	PrecipFreezing     PrecipCategory = "freezing"
	PrecipSnow         PrecipCategory = "snow"
	PrecipFog          PrecipCategory = "fog"
	PrecipMist         PrecipCategory = "mist"
	PrecipRain         PrecipCategory = "rain"
	PrecipNone         PrecipCategory = "none"
)

// CategorizePrecip reduces a METAR wx-token set to a single category.
// Priority: thunderstorm > freezing > snow/ice > fog > mist/haze > rain.
func CategorizePrecip(tokens []string) PrecipCategory {
	has := func(codes ...string) bool {
		for _, tok := range tokens {
			t := strings.ToUpper(strings.TrimLeft(strings.TrimSpace(tok), "+-"))
			for _, code := range codes {
				if strings.Contains(t, code) {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("TS"):
		return PrecipThunderstorm
	case has("FZ"):
		return PrecipFreezing
	case has("SN", "SG", "IC", "PL", "GR", "GS"):
		return PrecipSnow
	case has("FG"):
		return PrecipFog
	case has("BR", "HZ"):
		return PrecipMist
	case has("RA", "DZ", "SH"):
		return PrecipRain
	default:
		return PrecipNone
	}
}

// Trend describes how visibility is evolving over a lookback window.
type Trend string

const (
	TrendImproving     Trend = "improving"
	TrendSteady        Trend = "steady"
	TrendDeteriorating Trend = "deteriorating"
)

// trendThresholdSM is the visibility change, in statute miles, that
// separates steady from improving or deteriorating.
const trendThresholdSM = 1.5

// VisibilityTrend compares current visibility against the mean of the
// earlier half of the lookback window. Fewer than two lookback observations,
// or no usable visibilities, report steady.
func VisibilityTrend(lookback []models.WeatherObservation, current *float64) Trend {
	if current == nil || len(lookback) < 2 {
		return TrendSteady
	}

	sorted := make([]models.WeatherObservation, len(lookback))
	copy(sorted, lookback)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	half := sorted[:len(sorted)/2]
	var sum float64
	var n int
	for _, obs := range half {
		if obs.Visibility != nil {
			sum += *obs.Visibility
			n++
		}
	}
	if n == 0 {
		return TrendSteady
	}

	delta := *current - sum/float64(n)
	switch {
	case delta > trendThresholdSM:
		return TrendImproving
	case delta < -trendThresholdSM:
		return TrendDeteriorating
	default:
		return TrendSteady
	}
}
