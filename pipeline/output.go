package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/nao-bostraffic/arrivals"
)

// The aggregate tables are two-column key/value TSVs, rebuilt from
// scratch each run, keys sorted so reruns are byte-identical.

func writeCounts(path string, counts map[string]int) error {
	rows := map[string]string{}
	for k, v := range counts {
		rows[k] = strconv.Itoa(v)
	}
	return writeKV(path, rows)
}

func writeHours(path string, hours map[string]float64) error {
	rows := map[string]string{}
	for k, v := range hours {
		rows[k] = fmt.Sprintf("%.2f", v)
	}
	return writeKV(path, rows)
}

func writeKV(path string, rows map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	keys := []string{}
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := csv.NewWriter(f)
	w.Comma = '\t'
	for _, k := range keys {
		if err := w.Write([]string{k, rows[k]}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadOutputTable loads a previously written flight table, e.g. for
// publishing. Inverse of the driver's writer.
func ReadOutputTable(path string) ([]arrivals.NormalizedFlight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.Comma = '\t'

	headers, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: header row: %v", path, err)
	}
	if len(headers) != len(arrivals.OutputHeaders) {
		return nil, fmt.Errorf("%s: %d columns, want %d", path, len(headers), len(arrivals.OutputHeaders))
	}

	flights := []arrivals.NormalizedFlight{}
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		flight, err := arrivals.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		flights = append(flights, flight)
	}

	return flights, nil
}
