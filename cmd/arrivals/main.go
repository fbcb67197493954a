package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nao-bostraffic/arrivals/bq"
	"github.com/nao-bostraffic/arrivals/extract"
	"github.com/nao-bostraffic/arrivals/pipeline"
	"github.com/nao-bostraffic/arrivals/ref"
)

// The monitored airport's zone; every arrival stamp is BOS wall clock.
const kArrivalZoneName = "America/New_York"

var (
	ctx = context.Background()

	fCmd          string
	fRefDir       string
	fCacheDir     string
	fBucket       string
	fYears        string
	fOut          string
	fCounts       string
	fHours        string
	fUnknownState string
	fVerbose      bool

	fProject string
	fDataset string
	fTable   string
)

func init() {
	flag.StringVar(&fCmd, "cmd", "run", "what to do: {run,publish,ls}")
	flag.StringVar(&fRefDir, "refdir", "reference", "directory holding the reference tables")
	flag.StringVar(&fCacheDir, "cache", "flight_data", "local extract cache directory")
	flag.StringVar(&fBucket, "bucket", "nao-bostraffic", "extract archive bucket ('' for cache-only runs)")
	flag.StringVar(&fYears, "years", "2023,2024", "comma-separated years to scan")
	flag.StringVar(&fOut, "out", "all_flights.tsv", "output flight table")
	flag.StringVar(&fCounts, "counts", "location_flight_counts.tsv", "per-location flight count table")
	flag.StringVar(&fHours, "hours", "location_flight_hours.tsv", "per-location flight hours table")
	flag.StringVar(&fUnknownState, "unknown-state", "accept",
		"what to do with an unknown state code: {accept,drop}")
	flag.BoolVar(&fVerbose, "v", false, "log per-row rejections and skipped dates")

	flag.StringVar(&fProject, "project", "nao-bostraffic", "bigquery project for -cmd=publish")
	flag.StringVar(&fDataset, "dataset", "bostraffic", "bigquery dataset for -cmd=publish")
	flag.StringVar(&fTable, "table", "arrivals", "bigquery table for -cmd=publish")
	flag.Parse()
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if fVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

func parseYears(s string) ([]int, error) {
	years := []int{}
	for _, frag := range strings.Split(s, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(frag))
		if err != nil {
			return nil, fmt.Errorf("bad year '%s': %v", frag, err)
		}
		years = append(years, year)
	}
	return years, nil
}

// {{{ run

func run(log zerolog.Logger) error {
	years, err := parseYears(fYears)
	if err != nil {
		return err
	}
	policy, err := pipeline.ParseUnknownStatePolicy(fUnknownState)
	if err != nil {
		return err
	}

	registries, err := ref.Load(ref.DefaultConfig(fRefDir))
	if err != nil {
		return err
	}
	log.Info().
		Int("airports", registries.Airports.Len()).
		Int("states", registries.States.Len()).
		Int("zones", registries.Zones.Len()).
		Msg("reference tables loaded")

	var fetcher extract.Fetcher = extract.CacheOnly{}
	if fBucket != "" {
		gcs, err := extract.NewGCS(ctx, fBucket)
		if err != nil {
			return err
		}
		fetcher = gcs
	}

	arrivalZone, err := time.LoadLocation(kArrivalZoneName)
	if err != nil {
		return err
	}

	cfg := pipeline.DefaultConfig()
	cfg.Years = years
	cfg.OutPath = fOut
	cfg.CountsPath = fCounts
	cfg.HoursPath = fHours

	d := pipeline.Driver{
		Cfg:  cfg,
		Loc:  &extract.Locator{CacheDir: fCacheDir, Fetcher: fetcher},
		Norm: pipeline.NewNormalizer(registries, arrivalZone, policy, log),
		Log:  log,
	}

	tStart := time.Now()
	sum, err := d.Run(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("rows", sum.RowsRead).
		Int("included", sum.Included).
		Int("excluded", sum.Exclusions.Total()).
		Int("fetchErrors", sum.FetchErrors).
		Str("took", time.Since(tStart).String()).
		Msg("run complete")
	fmt.Printf("\n%s\n", sum)

	return nil
}

// }}}
// {{{ publish

func publish(log zerolog.Logger) error {
	flights, err := pipeline.ReadOutputTable(fOut)
	if err != nil {
		return err
	}

	p := bq.Publisher{Project: fProject, Dataset: fDataset, Table: fTable}
	n, err := p.Publish(ctx, flights)
	if err != nil {
		return err
	}

	log.Info().Int("flights", n).
		Str("table", fmt.Sprintf("%s.%s.%s", fProject, fDataset, fTable)).
		Msg("published")
	return nil
}

// }}}
// {{{ ls

func ls() error {
	gcs, err := extract.NewGCS(ctx, fBucket)
	if err != nil {
		return err
	}
	names, err := gcs.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("-- %d extracts in gs://%s\n", len(names), fBucket)
	return nil
}

// }}}

func main() {
	log := newLogger()

	var err error
	switch fCmd {
	case "run":
		err = run(log)
	case "publish":
		err = publish(log)
	case "ls":
		err = ls()
	default:
		err = fmt.Errorf("command '%s' not known", fCmd)
	}

	if err != nil {
		log.Fatal().Err(err).Str("cmd", fCmd).Msg("aborted")
	}
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
