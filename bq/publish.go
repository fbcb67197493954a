// Package bq publishes the normalized flight table into BigQuery, so
// the aggregate analysis can happen in SQL instead of one-off scripts.
package bq

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/nao-bostraffic/arrivals"
)

// ArrivalForBigQuery is a NormalizedFlight flattened for import: the
// airline list joined, the duration split into seconds plus a rounded
// hour bucket to make the common GROUP BY cheap.
type ArrivalForBigQuery struct {
	Origin     string
	OriginCode string
	Date       string // same format as BQ's DATE() function
	Terminal   string
	Equipment  string
	Flight     string
	Airline    string
	Nation     string
	State      bigquery.NullString
	FlightSecs int64
	FlightHrs  int64
}

func ForBigQuery(f arrivals.NormalizedFlight) ArrivalForBigQuery {
	state := bigquery.NullString{}
	if f.State != "" {
		state = bigquery.NullString{StringVal: f.State, Valid: true}
	}
	return ArrivalForBigQuery{
		Origin:     f.Origin,
		OriginCode: string(f.OriginCode),
		Date:       f.Date,
		Terminal:   f.Terminal,
		Equipment:  f.Equipment,
		Flight:     f.Flight,
		Airline:    f.AirlineString(),
		Nation:     f.Nation,
		State:      state,
		FlightSecs: int64(f.FlightTime / time.Second),
		FlightHrs:  int64(arrivals.RoundedHours(f.FlightTime)),
	}
}

type Publisher struct {
	Project string
	Dataset string
	Table   string
}

// Publish streams the flights into the table in batches. The table is
// expected to exist with a matching schema; rebuilding it is a
// dataset-admin job, not this tool's.
func (p *Publisher) Publish(ctx context.Context, flights []arrivals.NormalizedFlight) (int, error) {
	client, err := bigquery.NewClient(ctx, p.Project)
	if err != nil {
		return 0, fmt.Errorf("bigquery client: %w", err)
	}
	defer client.Close()

	inserter := client.Dataset(p.Dataset).Table(p.Table).Inserter()

	n := 0
	const batchSize = 500
	for start := 0; start < len(flights); start += batchSize {
		end := start + batchSize
		if end > len(flights) {
			end = len(flights)
		}
		rows := make([]ArrivalForBigQuery, 0, end-start)
		for _, f := range flights[start:end] {
			rows = append(rows, ForBigQuery(f))
		}
		if err := inserter.Put(ctx, rows); err != nil {
			return n, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		n += len(rows)
	}

	return n, nil
}
