package wxindex

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const weatherDoc = `{
  "records": [
    {
      "valid": "2024-07-01 08:00:00",
      "visibility_sm_v": 10,
      "wind_spd_kt_v": 8,
      "gust_kt_v": 18,
      "cloud_groups_raw": [
        {"type_raw": "FEW", "height_raw": "1200"},
        {"type_raw": "BKN", "height_raw": "2500"}
      ],
      "wxcodes_raw": "-RA BR"
    },
    {
      "valid": "2024-07-01T08:30:00",
      "visibility_sm_v": 2.5,
      "cloud_groups_raw": [{"type_raw": "OVC", "height_raw": "M"}],
      "wxcodes_tokens": ["RA", " ", "BR"]
    },
    {
      "valid": "not a timestamp",
      "visibility_sm_v": 1
    },
    {
      "visibility_sm_v": 1
    }
  ]
}`

func TestParseCollection(t *testing.T) {
	obs, dropped, err := ParseCollection([]byte(weatherDoc))
	if err != nil {
		t.Fatalf("ParseCollection() error: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(obs) != 2 {
		t.Fatalf("parsed %d observations, want 2", len(obs))
	}

	first := obs[0]
	if want := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC); !first.Time.Equal(want) {
		t.Errorf("time = %v, want %v", first.Time, want)
	}
	if first.Visibility == nil || *first.Visibility != 10 {
		t.Errorf("visibility = %v, want 10", first.Visibility)
	}
	if first.WindSpeed == nil || *first.WindSpeed != 8 {
		t.Errorf("wind speed = %v, want 8", first.WindSpeed)
	}
	if first.WindGust == nil || *first.WindGust != 18 {
		t.Errorf("wind gust = %v, want 18", first.WindGust)
	}
	if len(first.Clouds) != 2 || first.Clouds[1].Type != "BKN" || *first.Clouds[1].Height != 2500 {
		t.Errorf("clouds = %+v", first.Clouds)
	}
	if len(first.WxCodes) != 2 || first.WxCodes[0] != "-RA" || first.WxCodes[1] != "BR" {
		t.Errorf("wx codes = %v", first.WxCodes)
	}

	second := obs[1]
	if second.WindSpeed != nil {
		t.Errorf("absent wind speed = %v, want nil", second.WindSpeed)
	}
	// A masked height keeps the layer type with no height.
	if len(second.Clouds) != 1 || second.Clouds[0].Type != "OVC" || second.Clouds[0].Height != nil {
		t.Errorf("clouds = %+v", second.Clouds)
	}
	// Tokenized wx codes drop blanks.
	if len(second.WxCodes) != 2 {
		t.Errorf("wx codes = %v, want [RA BR]", second.WxCodes)
	}
}

func TestParseCollectionErrors(t *testing.T) {
	if _, _, err := ParseCollection([]byte("{not json")); err == nil {
		t.Error("invalid JSON, want error")
	}
	if _, _, err := ParseCollection([]byte(`{"rows": []}`)); err == nil {
		t.Error("missing records array, want error")
	}
}

func TestLoaderLoadYears(t *testing.T) {
	dir := t.TempDir()
	weatherDir := filepath.Join(dir, "weather")
	if err := os.MkdirAll(weatherDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(weatherDir, "KJFK_2024.json"), []byte(weatherDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{DataDir: dir}
	obs, err := l.LoadYears("KJFK", []int{2024})
	if err != nil {
		t.Fatalf("LoadYears() error: %v", err)
	}
	if len(obs) != 2 {
		t.Errorf("loaded %d observations, want 2", len(obs))
	}
}

func TestLoaderMissingYearIsFatalOnlyWhenAllEmpty(t *testing.T) {
	dir := t.TempDir()
	weatherDir := filepath.Join(dir, "weather")
	if err := os.MkdirAll(weatherDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(weatherDir, "KJFK_2024.json"), []byte(weatherDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{DataDir: dir}

	// One loadable year among the requested set is enough.
	obs, err := l.LoadYears("KJFK", []int{2023, 2024})
	if err != nil {
		t.Fatalf("LoadYears() error: %v", err)
	}
	if len(obs) != 2 {
		t.Errorf("loaded %d observations, want 2", len(obs))
	}

	// No loadable years at all is an error.
	if _, err := l.LoadYears("KJFK", []int{2020}); err == nil {
		t.Error("LoadYears() with nothing loadable, want error")
	}
}

func TestYearFile(t *testing.T) {
	l := &Loader{DataDir: "data"}
	want := filepath.Join("data", "weather", "KBOS_2023.json")
	if got := l.YearFile("KBOS", 2023); got != want {
		t.Errorf("YearFile() = %q, want %q", got, want)
	}
}
