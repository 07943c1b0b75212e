package store

import (
	"database/sql"
	"testing"
	"time"

	"k8s.io/utils/ptr"
	_ "modernc.org/sqlite"

	"github.com/lox/analogwx/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUpsertAndReplayObservations(t *testing.T) {
	s := setupTestStore(t)

	obs := []models.WeatherObservation{
		{
			Time:       time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC),
			Visibility: ptr.To(10.0),
			WindSpeed:  ptr.To(8.0),
			Clouds:     []models.CloudGroup{{Type: "BKN", Height: ptr.To(2500.0)}},
			WxCodes:    []string{"-RA", "BR"},
		},
		{
			Time:       time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
			Visibility: ptr.To(3.0),
		},
	}

	stored, err := s.UpsertObservations("KJFK", obs)
	if err != nil {
		t.Fatalf("UpsertObservations() error: %v", err)
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2", stored)
	}

	got, err := s.ObservationsForYear("KJFK", 2024)
	if err != nil {
		t.Fatalf("ObservationsForYear() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("replayed %d observations, want 2", len(got))
	}

	first := got[0]
	if !first.Time.Equal(obs[0].Time) {
		t.Errorf("time = %v, want %v", first.Time, obs[0].Time)
	}
	if first.Visibility == nil || *first.Visibility != 10 {
		t.Errorf("visibility = %v, want 10", first.Visibility)
	}
	if len(first.Clouds) != 1 || first.Clouds[0].Type != "BKN" {
		t.Errorf("clouds = %+v", first.Clouds)
	}
	if len(first.WxCodes) != 2 || first.WxCodes[0] != "-RA" {
		t.Errorf("wx codes = %v", first.WxCodes)
	}

	second := got[1]
	if second.WindSpeed != nil {
		t.Errorf("absent wind speed = %v, want nil", second.WindSpeed)
	}
	if second.WxCodes != nil {
		t.Errorf("absent wx codes = %v, want nil", second.WxCodes)
	}
}

func TestUpsertObservationsIsLastWriteWins(t *testing.T) {
	s := setupTestStore(t)
	ts := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	if _, err := s.UpsertObservations("KJFK", []models.WeatherObservation{
		{Time: ts, Visibility: ptr.To(5.0)},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertObservations("KJFK", []models.WeatherObservation{
		{Time: ts, Visibility: ptr.To(10.0)},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ObservationsForYear("KJFK", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("replayed %d observations, want 1", len(got))
	}
	if *got[0].Visibility != 10 {
		t.Errorf("visibility = %v, want 10 (later write wins)", *got[0].Visibility)
	}
}

func TestObservationsForYearScopesByAirportAndYear(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.UpsertObservations("KJFK", []models.WeatherObservation{
		{Time: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)},
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertObservations("KBOS", []models.WeatherObservation{
		{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ObservationsForYear("KJFK", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("replayed %d observations, want 1", len(got))
	}
}

func TestRecordAndLastRun(t *testing.T) {
	s := setupTestStore(t)

	if r, err := s.LastRun("situation_index", "KJFK"); err != nil || r != nil {
		t.Fatalf("LastRun() before any runs = (%+v, %v), want (nil, nil)", r, err)
	}

	runs := []Run{
		{Artifact: "situation_index", Airport: "KJFK", Years: "2023", Records: 100, DaysSkipped: 5, Path: "out/KJFK/situation_index.json"},
		{Artifact: "situation_index", Airport: "KJFK", Years: "2024", Records: 250, DaysSkipped: 2, Path: "out/KJFK/situation_index.json"},
	}
	for _, r := range runs {
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
	}

	last, err := s.LastRun("situation_index", "KJFK")
	if err != nil {
		t.Fatalf("LastRun() error: %v", err)
	}
	if last == nil {
		t.Fatal("LastRun() = nil, want run")
	}
	if last.Years != "2024" || last.Records != 250 {
		t.Errorf("LastRun() = %+v, want the most recent run", last)
	}

	if r, err := s.LastRun("situation_index", "KBOS"); err != nil || r != nil {
		t.Errorf("LastRun() other airport = (%+v, %v), want (nil, nil)", r, err)
	}
}
