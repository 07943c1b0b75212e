package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/analogwx/internal/artifact"
	"github.com/lox/analogwx/internal/daysituation"
	"github.com/lox/analogwx/internal/localtime"
	"github.com/lox/analogwx/internal/metrics"
	"github.com/lox/analogwx/internal/situation"
	"github.com/lox/analogwx/internal/store"
	"github.com/lox/analogwx/internal/summaries"
	"github.com/lox/analogwx/internal/wxindex"
)

type globals struct {
	Airport      string `help:"ICAO airport code." short:"a" required:""`
	Years        []int  `help:"Comma-separated list of years to process." sep:","`
	Year         int    `help:"Single year shorthand for --years."`
	DataDir      string `help:"Directory holding weather/ and summaries/ inputs." default:"data" env:"ANALOGWX_DATA_DIR"`
	OutDir       string `help:"Directory artifacts are written under." default:"out" env:"ANALOGWX_OUT_DIR"`
	DB           string `help:"Optional sqlite database for the observation archive and run history." env:"ANALOGWX_DB"`
	Force        bool   `help:"Rebuild even when the artifact already exists."`
	SummariesURL string `help:"Fetch per-day summaries over HTTP instead of the local mirror." env:"ANALOGWX_SUMMARIES_URL"`
	FTPHost      string `help:"FTP mirror host:port for per-year weather files." env:"ANALOGWX_FTP_HOST"`
	FTPDir       string `help:"Remote FTP directory holding the weather files." env:"ANALOGWX_FTP_DIR"`
	MetricsAddr  string `help:"Serve Prometheus metrics on this address for the duration of the run." env:"ANALOGWX_METRICS_ADDR"`
}

var cli struct {
	globals

	Situation    situationCmd    `cmd:"" help:"Build the Situation Index artifact."`
	Dayindex     dayindexCmd     `cmd:"" help:"Build the Day-Situation Index artifact."`
	Arrivalstats arrivalstatsCmd `cmd:"" help:"Build the Arrival Stats Index artifact."`
	Exampledays  exampledaysCmd  `cmd:"" help:"Build the Example Days Index artifact."`
	Ingest       ingestCmd       `cmd:"" help:"Archive per-year weather files into the sqlite store."`
}

// app holds the resources shared by every subcommand, assembled once after
// flag parsing.
type app struct {
	globals
	years    []int
	store    *store.Store
	loader   *wxindex.Loader
	source   summaries.Source
	resolver *localtime.Resolver
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("analogwx"),
		kong.Description("Builds analog-forecasting index artifacts for airport arrival timing."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)

	a, err := newApp(cli.globals)
	if err != nil {
		log.Fatalf("analogwx: %v", err)
	}
	defer a.close()

	if a.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("metrics: listening on %s", a.MetricsAddr)
			if err := http.ListenAndServe(a.MetricsAddr, mux); err != nil {
				log.Printf("metrics: %v", err)
			}
		}()
	}

	ctx.FatalIfErrorf(ctx.Run(a))
}

func newApp(g globals) (*app, error) {
	years := g.Years
	if g.Year != 0 {
		years = append(years, g.Year)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("at least one of --years or --year is required")
	}

	a := &app{globals: g, years: years}

	if g.DB != "" {
		db, err := sql.Open("sqlite", g.DB)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA busy_timeout=5000")
		a.store = store.New(db)
		if err := a.store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	a.loader = &wxindex.Loader{DataDir: g.DataDir}
	if g.FTPHost != "" {
		a.loader.FTP = &wxindex.FTPSource{Host: g.FTPHost, Dir: g.FTPDir}
	}
	if a.store != nil {
		a.loader.Archive = a.store
	}

	if g.SummariesURL != "" {
		a.source = summaries.NewHTTPSource(g.SummariesURL)
	} else {
		a.source = &summaries.DirSource{Dir: g.DataDir}
	}

	a.resolver = localtime.ForICAO(g.Airport)
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildWeatherIndex loads every requested year and refuses to continue with
// zero usable observations, so a valid prior artifact is never replaced by
// an empty one.
func (a *app) buildWeatherIndex() (*wxindex.Index, error) {
	obs, err := a.loader.LoadYears(a.Airport, a.years)
	if err != nil {
		return nil, fmt.Errorf("load weather observations: %w", err)
	}
	idx := wxindex.Build(obs)
	if idx.Len() == 0 {
		return nil, fmt.Errorf("no usable weather observations for %s %s", a.Airport, yearsLabel(a.years))
	}
	log.Printf("wx: indexed %d observation instants for %s", idx.Len(), a.Airport)
	return idx, nil
}

func (a *app) recordRun(name string, records, daysSkipped int, path string) {
	if a.store == nil {
		return
	}
	err := a.store.RecordRun(store.Run{
		Artifact:    name,
		Airport:     a.Airport,
		Years:       yearsLabel(a.years),
		Records:     records,
		DaysSkipped: daysSkipped,
		Path:        path,
	})
	if err != nil {
		log.Printf("store: record run: %v", err)
	}
}

func (a *app) writeArtifact(name string, records, daysSkipped int, doc any) error {
	path := artifact.Path(a.OutDir, a.Airport, name)
	if err := artifact.WriteJSON(path, doc); err != nil {
		return err
	}
	metrics.ArtifactsWritten.WithLabelValues(a.Airport, name).Inc()
	a.recordRun(name, records, daysSkipped, path)
	return nil
}

func yearsLabel(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

type situationCmd struct{}

func (c *situationCmd) Run(a *app) error {
	const name = "situation_index"
	if artifact.ShouldSkip(artifact.Path(a.OutDir, a.Airport, name), a.Force) {
		return nil
	}
	timer := metrics.BuildDuration.WithLabelValues(name)
	start := time.Now()

	idx, err := a.buildWeatherIndex()
	if err != nil {
		return err
	}
	b := &situation.Builder{
		Airport:  a.Airport,
		Resolver: a.resolver,
		Index:    idx,
		Source:   a.source,
	}
	res := b.Build(a.years)
	doc := situation.BuildIndex(a.Airport, a.years, res.Records)

	if err := a.writeArtifact(name, len(res.Records), res.DaysSkipped, doc); err != nil {
		return err
	}
	timer.Observe(time.Since(start).Seconds())
	return nil
}

type dayindexCmd struct{}

func (c *dayindexCmd) Run(a *app) error {
	const name = "day_situation_index"
	if artifact.ShouldSkip(artifact.Path(a.OutDir, a.Airport, name), a.Force) {
		return nil
	}
	timer := metrics.BuildDuration.WithLabelValues(name)
	start := time.Now()

	idx, err := a.buildWeatherIndex()
	if err != nil {
		return err
	}
	b := &daysituation.Builder{
		Airport:  a.Airport,
		Resolver: a.resolver,
		Index:    idx,
		Source:   a.source,
	}
	res := b.Build(a.years)

	if err := a.writeArtifact(name, res.DaysProcessed, res.DaysSkipped, res.Index); err != nil {
		return err
	}
	timer.Observe(time.Since(start).Seconds())
	return nil
}

type arrivalstatsCmd struct{}

func (c *arrivalstatsCmd) Run(a *app) error {
	const name = "arrival_stats_index"
	if artifact.ShouldSkip(artifact.Path(a.OutDir, a.Airport, name), a.Force) {
		return nil
	}
	timer := metrics.BuildDuration.WithLabelValues(name)
	start := time.Now()

	idx, err := a.buildWeatherIndex()
	if err != nil {
		return err
	}
	b := &situation.Builder{
		Airport:      a.Airport,
		Resolver:     a.resolver,
		Index:        idx,
		Source:       a.source,
		ExcludeLight: true,
	}
	res := b.Build(a.years)
	doc := situation.BuildArrivalStats(a.Airport, a.years, res.Records)

	if err := a.writeArtifact(name, len(res.Records), res.DaysSkipped, doc); err != nil {
		return err
	}
	timer.Observe(time.Since(start).Seconds())
	return nil
}

type exampledaysCmd struct{}

func (c *exampledaysCmd) Run(a *app) error {
	const name = "example_days_index"
	if artifact.ShouldSkip(artifact.Path(a.OutDir, a.Airport, name), a.Force) {
		return nil
	}
	timer := metrics.BuildDuration.WithLabelValues(name)
	start := time.Now()

	idx, err := a.buildWeatherIndex()
	if err != nil {
		return err
	}
	b := &daysituation.Builder{
		Airport:      a.Airport,
		Resolver:     a.resolver,
		Index:        idx,
		Source:       a.source,
		ExcludeLight: true,
	}
	res := b.Build(a.years)
	doc := daysituation.BuildExampleDays(res.Index)

	if err := a.writeArtifact(name, res.DaysProcessed, res.DaysSkipped, doc); err != nil {
		return err
	}
	timer.Observe(time.Since(start).Seconds())
	return nil
}

type ingestCmd struct{}

// Run archives each requested year's observations into sqlite so later
// builds can fall back to the archive when the source files are gone.
func (c *ingestCmd) Run(a *app) error {
	if a.store == nil {
		return fmt.Errorf("--db is required for ingest")
	}

	for _, year := range a.years {
		obs, err := a.loader.LoadYears(a.Airport, []int{year})
		if err != nil {
			log.Printf("ingest: %s %d: %v", a.Airport, year, err)
			continue
		}
		stored, err := a.store.UpsertObservations(a.Airport, obs)
		if err != nil {
			return fmt.Errorf("archive %s %d: %w", a.Airport, year, err)
		}
		log.Printf("ingest: archived %d observations for %s %d", stored, a.Airport, year)
	}
	return nil
}
