package arrivals

import (
	"fmt"
	"strings"
	"time"
)

// NormalizedFlight is the validated, enriched form of one arrival row;
// one line of the output table. Immutable once written.
type NormalizedFlight struct {
	Origin     string
	OriginCode AirportCode
	Date       string // actual arrival date, as it appeared in the extract
	Terminal   string
	Equipment  string
	Flight     string
	Airlines   []string
	Nation     string
	State      string // full state name; empty for foreign origins (or unknown state codes, by policy)

	// FlightTime is the zone-adjusted duration, unrounded. Post-filter
	// it is always within [0, 19h].
	FlightTime time.Duration
}

// OutputHeaders is the fixed column order of the output table. The
// downstream plotting scripts hardcode these names; don't reorder.
var OutputHeaders = []string{
	"Origin",
	"Origin Code",
	"Date",
	"Terminal",
	"Equipment",
	"Flight",
	"Airline",
	"Nation",
	"State",
	"Flight Time",
}

// Codeshares show up as a single slash-separated Airline field.
func ParseAirlines(s string) []string {
	ret := []string{}
	for _, a := range strings.Split(s, "/") {
		if a = strings.TrimSpace(a); a != "" {
			ret = append(ret, a)
		}
	}
	return ret
}

func (f NormalizedFlight) AirlineString() string {
	return strings.Join(f.Airlines, " / ")
}

func (f NormalizedFlight) ToRow() []string {
	return []string{
		f.Origin,
		string(f.OriginCode),
		f.Date,
		f.Terminal,
		f.Equipment,
		f.Flight,
		f.AirlineString(),
		f.Nation,
		f.State,
		FormatDuration(f.FlightTime),
	}
}

func (f NormalizedFlight) String() string {
	return fmt.Sprintf("%s (%s) %s -> BOS, %s", f.Flight, f.AirlineString(),
		f.OriginCode, FormatDuration(f.FlightTime))
}

// LocationKey is what the per-location aggregate tables are keyed by:
// the state name for domestic flights, else the nation.
func (f NormalizedFlight) LocationKey() string {
	if f.Nation == NationUS && f.State != "" {
		return f.State
	}
	return f.Nation
}

// FormatDuration renders H:MM:SS with no zero-padding on the hours,
// the format the output table has always carried (downstream readers
// parse it with %H:%M:%S).
func FormatDuration(d time.Duration) string {
	neg := ""
	if d < 0 {
		neg = "-"
		d = -d
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d", neg, h, m, s)
}

// ParseRowDuration is the inverse of FormatDuration.
func ParseRowDuration(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "-"), "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("bad duration %q: %v", s, err)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	if strings.HasPrefix(s, "-") {
		d = -d
	}
	return d, nil
}

// FromRow rebuilds a NormalizedFlight from one output-table row, e.g.
// when re-publishing an existing table. Inverse of ToRow.
func FromRow(row []string) (NormalizedFlight, error) {
	if len(row) != len(OutputHeaders) {
		return NormalizedFlight{}, fmt.Errorf("row has %d cols, want %d", len(row), len(OutputHeaders))
	}
	d, err := ParseRowDuration(row[9])
	if err != nil {
		return NormalizedFlight{}, err
	}
	return NormalizedFlight{
		Origin:     row[0],
		OriginCode: AirportCode(row[1]),
		Date:       row[2],
		Terminal:   row[3],
		Equipment:  row[4],
		Flight:     row[5],
		Airlines:   ParseAirlines(row[6]),
		Nation:     row[7],
		State:      row[8],
		FlightTime: d,
	}, nil
}
