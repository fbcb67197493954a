package arrivals

import (
	"encoding/csv"
	"fmt"
	"io"
)

/* A daily extract is a plain CSV file, header first. The columns we
care about:

  Origin, Origin Code, Departure Date, Departure Time, Arrival Date,
  Arrival Time, Scheduled Arrival Date, Scheduled Arrival Time,
  Terminal, Equipment, Flight, Airline, Status

All date/time fields are local wall-clock strings with no zone
attached; the Status field is free text ("Landed - On-time",
"Canceled", "Landed DIVERTED ...", "Unknown", ...).

The extract format has grown columns over time, so rows are keyed by
header name rather than position.
*/

// RawRow is one arrival row, keyed by header name.
type RawRow map[string]string

type RowReader struct {
	csvreader *csv.Reader
	headers   []string
}

func NewRowReader(ioreader io.Reader) *RowReader {
	rdr := RowReader{
		csvreader: csv.NewReader(ioreader),
	}
	rdr.headers, _ = rdr.csvreader.Read() // Discard err, we'll get it when we try to get next row
	return &rdr
}

func (r *RowReader) Read() (RawRow, error) {
	m := RawRow{}

	vals, err := r.csvreader.Read()
	if err != nil {
		return m, err
	} else if len(r.headers) != len(vals) {
		return m, fmt.Errorf("header/val mismatch (%d/%d)", len(r.headers), len(vals))
	}

	for i := range vals {
		m[r.headers[i]] = vals[i]
	}

	return m, nil
}

func (r RawRow) Origin() string              { return r["Origin"] }
func (r RawRow) OriginCode() AirportCode     { return AirportCode(r["Origin Code"]) }
func (r RawRow) DepartureDate() string       { return r["Departure Date"] }
func (r RawRow) DepartureTime() string       { return r["Departure Time"] }
func (r RawRow) ArrivalDate() string         { return r["Arrival Date"] }
func (r RawRow) ArrivalTime() string         { return r["Arrival Time"] }
func (r RawRow) SchedArrivalDate() string    { return r["Scheduled Arrival Date"] }
func (r RawRow) SchedArrivalTime() string    { return r["Scheduled Arrival Time"] }
func (r RawRow) Terminal() string            { return r["Terminal"] }
func (r RawRow) Equipment() string           { return r["Equipment"] }
func (r RawRow) Flight() string              { return r["Flight"] }
func (r RawRow) Airline() string             { return r["Airline"] }
func (r RawRow) Status() string              { return r["Status"] }

// ArrivedAsScheduled is the staleness proxy for rows whose status is
// "Unknown": if the actual arrival stamp exactly equals the scheduled
// one, the flight in fact landed on time and the status field is stale.
func (r RawRow) ArrivedAsScheduled() bool {
	return r.ArrivalTime() == r.SchedArrivalTime() &&
		r.ArrivalDate() == r.SchedArrivalDate()
}
