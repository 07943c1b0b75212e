// Package store is the sqlite observation archive: ingested weather
// observations can be replayed into the in-memory index on later runs, and
// every artifact build is recorded for operational history.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lox/analogwx/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertObservations archives parsed observations for an airport.
// Timestamp collisions are last-write-wins, matching index semantics.
func (s *Store) UpsertObservations(airport string, obs []models.WeatherObservation) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO observations (airport, observed_at, visibility_sm, wind_speed_kt, wind_gust_kt, clouds_json, wx_codes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(airport, observed_at) DO UPDATE SET
			visibility_sm = excluded.visibility_sm,
			wind_speed_kt = excluded.wind_speed_kt,
			wind_gust_kt = excluded.wind_gust_kt,
			clouds_json = excluded.clouds_json,
			wx_codes = excluded.wx_codes
	`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, o := range obs {
		clouds, err := json.Marshal(o.Clouds)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("marshal clouds: %w", err)
		}
		if _, err := stmt.Exec(
			airport,
			o.Time.UTC().Format(time.RFC3339),
			nullFloat(o.Visibility),
			nullFloat(o.WindSpeed),
			nullFloat(o.WindGust),
			string(clouds),
			strings.Join(o.WxCodes, " "),
		); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert observation: %w", err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ObservationsForYear replays archived observations for one airport/year.
// Satisfies the wxindex archive fallback.
func (s *Store) ObservationsForYear(airport string, year int) ([]models.WeatherObservation, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	rows, err := s.db.Query(`
		SELECT observed_at, visibility_sm, wind_speed_kt, wind_gust_kt, clouds_json, wx_codes
		FROM observations
		WHERE airport = ? AND observed_at >= ? AND observed_at < ?
		ORDER BY observed_at ASC
	`, airport, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WeatherObservation
	for rows.Next() {
		var observedAt, cloudsJSON, wxCodes string
		var vis, spd, gust sql.NullFloat64
		if err := rows.Scan(&observedAt, &vis, &spd, &gust, &cloudsJSON, &wxCodes); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, observedAt)
		if err != nil {
			return nil, fmt.Errorf("parse observed_at %q: %w", observedAt, err)
		}
		obs := models.WeatherObservation{
			Time:       t.UTC(),
			Visibility: floatPtr(vis),
			WindSpeed:  floatPtr(spd),
			WindGust:   floatPtr(gust),
		}
		if cloudsJSON != "" && cloudsJSON != "null" {
			if err := json.Unmarshal([]byte(cloudsJSON), &obs.Clouds); err != nil {
				return nil, fmt.Errorf("unmarshal clouds: %w", err)
			}
		}
		if wxCodes != "" {
			obs.WxCodes = strings.Fields(wxCodes)
		}
		out = append(out, obs)
	}
	return out, rows.Err()
}

// Run records one artifact build for operational history.
type Run struct {
	ID          int64
	Artifact    string
	Airport     string
	Years       string
	Records     int
	DaysSkipped int
	Path        string
	CreatedAt   time.Time
}

func (s *Store) RecordRun(r Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (artifact, airport, years, records, days_skipped, path)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Artifact, r.Airport, r.Years, r.Records, r.DaysSkipped, r.Path)
	return err
}

// LastRun returns the most recent recorded build of an artifact, if any.
func (s *Store) LastRun(artifact, airport string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, artifact, airport, years, records, days_skipped, path, created_at
		FROM runs
		WHERE artifact = ? AND airport = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, artifact, airport)

	var r Run
	err := row.Scan(&r.ID, &r.Artifact, &r.Airport, &r.Years, &r.Records, &r.DaysSkipped, &r.Path, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
