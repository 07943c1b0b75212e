package wxindex

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"

	"github.com/lox/analogwx/internal/metrics"
	"github.com/lox/analogwx/internal/models"
)

// Archive is an optional fallback source of previously ingested
// observations, satisfied by the sqlite store.
type Archive interface {
	ObservationsForYear(airport string, year int) ([]models.WeatherObservation, error)
}

// Loader assembles the observation records for a set of years from local
// per-year JSON files, an optional FTP mirror, and an optional archive.
type Loader struct {
	DataDir string
	FTP     *FTPSource
	Archive Archive
}

// YearFile returns the expected local path of a per-year weather file.
func (l *Loader) YearFile(airport string, year int) string {
	return filepath.Join(l.DataDir, "weather", fmt.Sprintf("%s_%d.json", airport, year))
}

// LoadYears merges every requested year's observations. A year that cannot
// be loaded from any source is logged and skipped; the caller decides
// whether the merged result is usable at all.
func (l *Loader) LoadYears(airport string, years []int) ([]models.WeatherObservation, error) {
	var all []models.WeatherObservation
	var merr *multierror.Error

	for _, year := range years {
		obs, err := l.loadYear(airport, year)
		if err != nil {
			log.Printf("wx: %s %d: %v", airport, year, err)
			merr = multierror.Append(merr, fmt.Errorf("year %d: %w", year, err))
			continue
		}
		log.Printf("wx: loaded %d observations for %s %d", len(obs), airport, year)
		all = append(all, obs...)
	}

	if len(all) == 0 {
		return nil, merr.ErrorOrNil()
	}
	metrics.ObservationsIndexed.WithLabelValues(airport).Add(float64(len(all)))
	return all, nil
}

func (l *Loader) loadYear(airport string, year int) ([]models.WeatherObservation, error) {
	path := l.YearFile(airport, year)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return l.parse(airport, data)
	case os.IsNotExist(err) && l.FTP != nil:
		data, ferr := l.FTP.FetchYear(airport, year)
		if ferr != nil {
			return nil, fmt.Errorf("no local file and ftp fetch failed: %w", ferr)
		}
		return l.parse(airport, data)
	case os.IsNotExist(err) && l.Archive != nil:
		obs, aerr := l.Archive.ObservationsForYear(airport, year)
		if aerr != nil {
			return nil, fmt.Errorf("no local file and archive lookup failed: %w", aerr)
		}
		if len(obs) == 0 {
			return nil, fmt.Errorf("no local file and no archived observations")
		}
		return obs, nil
	default:
		return nil, err
	}
}

func (l *Loader) parse(airport string, data []byte) ([]models.WeatherObservation, error) {
	obs, dropped, err := ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Printf("wx: dropped %d malformed records for %s", dropped, airport)
		metrics.ObservationsDropped.WithLabelValues(airport, "malformed").Add(float64(dropped))
	}
	return obs, nil
}

// timestamp layouts emitted by the upstream CSV translator.
var validLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseCollection extracts observations from a per-year weather collection.
// The record shape is loosely typed, so individual fields degrade to absent
// rather than failing the document; records without a parseable timestamp
// are dropped and counted.
func ParseCollection(data []byte) ([]models.WeatherObservation, int, error) {
	if !gjson.ValidBytes(data) {
		return nil, 0, fmt.Errorf("invalid JSON document")
	}
	records := gjson.GetBytes(data, "records")
	if !records.IsArray() {
		return nil, 0, fmt.Errorf("document has no records array")
	}

	var out []models.WeatherObservation
	dropped := 0
	records.ForEach(func(_, rec gjson.Result) bool {
		ts, ok := parseValid(rec.Get("valid"))
		if !ok {
			// The translator nulls "valid" when the raw value would not
			// parse, but keeps the raw string alongside.
			ts, ok = parseValid(rec.Get("valid_raw"))
		}
		if !ok {
			dropped++
			return true
		}
		obs := models.WeatherObservation{
			Time:       ts,
			Visibility: numberField(rec.Get("visibility_sm_v")),
			WindSpeed:  numberField(rec.Get("wind_spd_kt_v")),
			WindGust:   numberField(rec.Get("gust_kt_v")),
			Clouds:     cloudGroups(rec.Get("cloud_groups_raw")),
			WxCodes:    wxTokens(rec),
		}
		out = append(out, obs)
		return true
	})
	return out, dropped, nil
}

func parseValid(v gjson.Result) (time.Time, bool) {
	if v.Type != gjson.String || v.Str == "" {
		return time.Time{}, false
	}
	for _, layout := range validLayouts {
		if t, err := time.Parse(layout, v.Str); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func numberField(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Num
	return &f
}

func cloudGroups(v gjson.Result) []models.CloudGroup {
	if !v.IsArray() {
		return nil
	}
	var groups []models.CloudGroup
	v.ForEach(func(_, g gjson.Result) bool {
		group := models.CloudGroup{Type: strings.TrimSpace(g.Get("type_raw").String())}
		raw := strings.TrimSpace(g.Get("height_raw").String())
		if raw != "" && raw != "M" {
			if h, err := strconv.ParseFloat(raw, 64); err == nil {
				group.Height = &h
			}
		}
		if group.Type != "" || group.Height != nil {
			groups = append(groups, group)
		}
		return true
	})
	return groups
}

func wxTokens(rec gjson.Result) []string {
	if tokens := rec.Get("wxcodes_tokens"); tokens.IsArray() {
		var out []string
		tokens.ForEach(func(_, t gjson.Result) bool {
			if s := strings.TrimSpace(t.String()); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	raw := strings.TrimSpace(rec.Get("wxcodes_raw").String())
	if raw == "" || raw == "M" {
		return nil
	}
	return strings.Fields(raw)
}
