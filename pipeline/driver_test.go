package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao-bostraffic/arrivals"
	"github.com/nao-bostraffic/arrivals/extract"
	"github.com/nao-bostraffic/arrivals/ref"
)

// recordingFetcher notes every date the driver asks for; the archive
// is empty.
type recordingFetcher struct {
	dates []string
	err   error
}

func (f *recordingFetcher) Fetch(ctx context.Context, day time.Time) (io.ReadCloser, error) {
	f.dates = append(f.dates, day.Format("2006-01-02"))
	if f.err != nil {
		return nil, f.err
	}
	return nil, extract.ErrNoDataForDate
}

func fixedToday(s string) func() time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestDriver(t *testing.T, cacheDir string, fetcher extract.Fetcher, cfg Config) *Driver {
	t.Helper()
	reg, err := ref.Load(ref.DefaultConfig("testdata/ref"))
	require.NoError(t, err)
	arrivalZone, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return &Driver{
		Cfg:  cfg,
		Loc:  &extract.Locator{CacheDir: cacheDir, Fetcher: fetcher},
		Norm: NewNormalizer(reg, arrivalZone, AcceptWithNullState, zerolog.Nop()),
		Log:  zerolog.Nop(),
	}
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Years = []int{2023}
	cfg.Today = fixedToday("2023-04-18")
	dir := t.TempDir()
	cfg.OutPath = filepath.Join(dir, "all_flights.tsv")
	cfg.CountsPath = filepath.Join(dir, "location_flight_counts.tsv")
	cfg.HoursPath = filepath.Join(dir, "location_flight_hours.tsv")
	return cfg
}

func TestRunOverCachedExtracts(t *testing.T) {
	cfg := testConfig(t)
	d := newTestDriver(t, "testdata/cache", extract.CacheOnly{}, cfg)

	sum, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, sum.RowsRead)
	assert.Equal(t, 3, sum.Included)
	assert.Equal(t, 1, sum.Exclusions[arrivals.Canceled])
	assert.Equal(t, 1, sum.Exclusions[arrivals.MissingAirportCode])
	assert.Equal(t, 1, sum.Misses["QQQ"])
	assert.Equal(t, 0, sum.FetchErrors)

	// Conservation: every input row is accepted or classified.
	assert.Equal(t, sum.RowsRead, sum.Included+sum.Exclusions.Total())

	body, err := os.ReadFile(cfg.OutPath)
	require.NoError(t, err)
	want := "Origin\tOrigin Code\tDate\tTerminal\tEquipment\tFlight\tAirline\tNation\tState\tFlight Time\n" +
		"Los Angeles\tLAX\t2023-04-17\tB\tB738\tAA 100\tAmerican\tUnited States\tCalifornia\t5:30:00\n" +
		"Paris\tCDG\t2023-04-17\tE\tB77W\tAF 332\tAir France\tFrance\t\t14:30:00\n" +
		"Provincetown\tPVC\t2023-04-18\tA\tC402\t9K 200\tCape Air\tUnited States\tMassachusetts\t0:30:00\n"
	assert.Equal(t, want, string(body))

	counts, err := os.ReadFile(cfg.CountsPath)
	require.NoError(t, err)
	assert.Equal(t, "California\t1\nFrance\t1\nMassachusetts\t1\n", string(counts))

	hours, err := os.ReadFile(cfg.HoursPath)
	require.NoError(t, err)
	assert.Equal(t, "California\t5.50\nFrance\t14.50\nMassachusetts\t0.50\n", string(hours))
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	d := newTestDriver(t, "testdata/cache", extract.CacheOnly{}, cfg)
	ctx := context.Background()

	_, err := d.Run(ctx)
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.OutPath)
	require.NoError(t, err)

	_, err = d.Run(ctx)
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.OutPath)
	require.NoError(t, err)

	assert.Equal(t, first, second, "reruns over the same cache must be byte-identical")
}

func TestRunReadsOutputBack(t *testing.T) {
	cfg := testConfig(t)
	d := newTestDriver(t, "testdata/cache", extract.CacheOnly{}, cfg)

	_, err := d.Run(context.Background())
	require.NoError(t, err)

	flights, err := ReadOutputTable(cfg.OutPath)
	require.NoError(t, err)
	require.Len(t, flights, 3)
	assert.Equal(t, arrivals.AirportCode("LAX"), flights[0].OriginCode)
	assert.Equal(t, 5*time.Hour+30*time.Minute, flights[0].FlightTime)

	// Post-filter invariant.
	for _, f := range flights {
		assert.GreaterOrEqual(t, f.FlightTime, time.Duration(0))
		assert.LessOrEqual(t, f.FlightTime, arrivals.MaxFlightTime)
	}
}

func TestRunCalendarScan(t *testing.T) {
	fetcher := &recordingFetcher{}
	cfg := testConfig(t)
	cfg.Years = []int{2024}
	cfg.EarliestData = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg.Today = fixedToday("2024-05-02")
	d := newTestDriver(t, t.TempDir(), fetcher, cfg)

	_, err := d.Run(context.Background())
	require.NoError(t, err)

	// Jan 31 + Feb 28 + Mar 31 + Apr 30 + May 2.
	assert.Len(t, fetcher.dates, 122)
	assert.Contains(t, fetcher.dates, "2024-01-31")
	assert.Contains(t, fetcher.dates, "2024-02-28")
	assert.Contains(t, fetcher.dates, "2024-04-30")
	assert.Equal(t, "2024-05-02", fetcher.dates[len(fetcher.dates)-1])

	// Feb 29 exists in 2024, but the scan never visits it.
	assert.NotContains(t, fetcher.dates, "2024-02-29")

	seen := map[string]bool{}
	for _, date := range fetcher.dates {
		assert.False(t, seen[date], "date %s visited twice", date)
		seen[date] = true
	}
}

func TestRunSkipsBeforeEarliestData(t *testing.T) {
	fetcher := &recordingFetcher{}
	cfg := testConfig(t)
	cfg.Today = fixedToday("2023-04-20")
	d := newTestDriver(t, t.TempDir(), fetcher, cfg)

	_, err := d.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, fetcher.dates, 4)
	assert.Equal(t, "2023-04-17", fetcher.dates[0])
	assert.Equal(t, "2023-04-20", fetcher.dates[3])
}

func TestRunCountsTransientFetchErrors(t *testing.T) {
	fetcher := &recordingFetcher{err: errors.New("connection reset")}
	cfg := testConfig(t)
	d := newTestDriver(t, t.TempDir(), fetcher, cfg)

	sum, err := d.Run(context.Background())
	require.NoError(t, err, "a fetch failure skips the date, never stops the run")
	assert.Equal(t, 2, sum.FetchErrors)
	assert.Equal(t, 0, sum.Included)
}
