package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/skypies/util/histogram"

	"github.com/nao-bostraffic/arrivals"
	"github.com/nao-bostraffic/arrivals/extract"
)

// {{{ notes

/* The driver walks (year, month, day) triples in ascending order over
the configured years. The calendar handling is deliberately static:
day>28 in February is never visited (so Feb 29 is excluded even in
leap years; the archive has never had a leap-day object), nor is day
31 in the 30-day months. Dates before the first collection date are
skipped; the first date after "today" ends that year's scan, since
days are visited in ascending order.

One date is fully fetched, parsed, and aggregated before the next
begins. There is no resume: the output tables are rewritten from
scratch each run.
*/

// }}}

// FirstCollectionDate is the day the arrivals feed started.
var FirstCollectionDate = time.Date(2023, time.April, 17, 0, 0, 0, 0, time.UTC)

type Config struct {
	Years        []int
	EarliestData time.Time

	OutPath    string // the canonical flight table
	CountsPath string // per-location flight counts
	HoursPath  string // per-location summed flight hours

	// Today is overridable so tests can pin the clock.
	Today func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Years:        []int{2023, 2024},
		EarliestData: FirstCollectionDate,
		OutPath:      "all_flights.tsv",
		CountsPath:   "location_flight_counts.tsv",
		HoursPath:    "location_flight_hours.tsv",
		Today:        func() time.Time { return time.Now().UTC().Truncate(24 * time.Hour) },
	}
}

type Driver struct {
	Cfg  Config
	Loc  *extract.Locator
	Norm *Normalizer
	Log  zerolog.Logger
}

// Summary is the process-lifetime accounting: reported on the console,
// never persisted. Conservation holds per run: Included +
// Exclusions.Total() == RowsRead.
type Summary struct {
	RowsRead    int
	Included    int
	Exclusions  arrivals.ExclusionTally
	FetchErrors int // transient fetch failures, distinct from no-data days

	Hours           histogram.Histogram // rounded-hour distribution
	Counts          map[string]int
	HoursByLocation map[string]float64
	Misses          map[arrivals.AirportCode]int
}

// {{{ d.Run

func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{
		Exclusions:      arrivals.ExclusionTally{},
		Hours:           histogram.Histogram{NumBuckets: 20, ValMax: 20},
		Counts:          map[string]int{},
		HoursByLocation: map[string]float64{},
	}

	outf, err := os.Create(d.Cfg.OutPath)
	if err != nil {
		return nil, err
	}
	defer outf.Close()

	w := csv.NewWriter(outf)
	w.Comma = '\t'
	if err := w.Write(arrivals.OutputHeaders); err != nil {
		return nil, err
	}

	today := d.Cfg.Today()
	for _, year := range d.Cfg.Years {
		for month := time.January; month <= time.December; month++ {
			for dayNum := 1; dayNum <= 31; dayNum++ {
				if month == time.February && dayNum > 28 {
					continue
				}
				if dayNum == 31 && shortMonth(month) {
					continue
				}
				day := time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)
				if day.Before(d.Cfg.EarliestData) {
					continue
				}
				if today.Before(day) {
					break // days ascend, so the rest of the month is also future
				}
				if err := d.processDate(ctx, day, w, sum); err != nil {
					return nil, err
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	if err := outf.Close(); err != nil {
		return nil, err
	}

	if err := writeCounts(d.Cfg.CountsPath, sum.Counts); err != nil {
		return nil, err
	}
	if err := writeHours(d.Cfg.HoursPath, sum.HoursByLocation); err != nil {
		return nil, err
	}

	sum.Misses = d.Norm.Misses
	return sum, nil
}

// }}}
// {{{ d.processDate

func (d *Driver) processDate(ctx context.Context, day time.Time, w *csv.Writer, sum *Summary) error {
	path, err := d.Loc.Locate(ctx, day)
	if errors.Is(err, extract.ErrNoDataForDate) {
		d.Log.Debug().Str("date", day.Format("2006-01-02")).Msg("no data for date")
		return nil
	}
	if err != nil {
		// Transient fetch failure. No retries anywhere; the date is
		// skipped, but counted apart from the genuinely-absent days.
		sum.FetchErrors++
		d.Log.Warn().Err(err).Str("date", day.Format("2006-01-02")).Msg("fetch failed, skipping date")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rdr := arrivals.NewRowReader(f)
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		sum.RowsRead++

		flight, reason, err := d.Norm.Normalize(row)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if flight == nil {
			sum.Exclusions.Add(reason)
			continue
		}

		if err := w.Write(flight.ToRow()); err != nil {
			return err
		}
		sum.Included++
		sum.Hours.Add(histogram.ScalarVal(arrivals.RoundedHours(flight.FlightTime)))
		key := flight.LocationKey()
		sum.Counts[key]++
		sum.HoursByLocation[key] += flight.FlightTime.Hours()
	}

	return nil
}

// }}}
// {{{ shortMonth

func shortMonth(m time.Month) bool {
	switch m {
	case time.April, time.June, time.September, time.November:
		return true
	}
	return false
}

// }}}

// {{{ sum.String

func (s *Summary) String() string {
	str := s.Exclusions.String()
	str += fmt.Sprintf("\nIncluded flights: %d\n", s.Included)
	if s.FetchErrors > 0 {
		str += fmt.Sprintf("Fetch errors (dates skipped): %d\n", s.FetchErrors)
	}
	str += fmt.Sprintf("\nFlight Time Distribution: %s\n", s.Hours)

	if len(s.Misses) > 0 {
		type miss struct {
			code arrivals.AirportCode
			n    int
		}
		misses := []miss{}
		for code, n := range s.Misses {
			misses = append(misses, miss{code, n})
		}
		sort.Slice(misses, func(i, j int) bool {
			if misses[i].n != misses[j].n {
				return misses[i].n > misses[j].n
			}
			return misses[i].code < misses[j].code
		})
		str += "\nMissing airport codes:\n"
		for _, m := range misses {
			str += fmt.Sprintf("  %s: %d\n", m.code, m.n)
		}
	}

	return str
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
