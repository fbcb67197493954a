package ref

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao-bostraffic/arrivals"
)

// {{{ notes

/* Airport geography comes from three overlapping sources, in strict
precedence order:

 1. a curated override table, for airports the bulk sheet mis-encodes
    or lacks entirely;
 2. a "minor airports" supplementary table (GA fields, tiny regionals);
 3. a bulk spreadsheet-derived table ("Airport Codes by Country"),
    which distinguishes USA vs foreign rows and needs a handful of
    hard-coded corrections of its own (multi-airport metro codes whose
    City field is ambiguous, and SJU, which the sheet files under a
    country even though Puerto Rico flights are domestic).

The override and minor tables share a two-column format:

  CODE \t LOCATION

where LOCATION is either a state code or a country name; which one it
is gets decided against the state table at load time.

The bulk table is a TSV with a header row of "City", "Country " (note
the trailing space, faithfully preserved from the source spreadsheet)
and "Code". For USA rows the state is the last comma-separated part of
the City field, first word only ("Bristol, VA/Johnson City" -> "VA").
*/

// }}}

// Corrections applied to the bulk sheet's USA rows. TODO: switch the
// bulk table to official IATA data and retire these.
var bulkCorrections = map[arrivals.AirportCode]string{
	"DCA": "DC",
	"SFO": "CA",
	"IAD": "VA",
	"BWI": "MD",
	"ATL": "GA",
	"BUF": "NY",
	"SJU": "PR",
	"IAG": "NY",
	"TRI": "TN",
}

// AirportRegistry resolves an airport code to at most one Region.
type AirportRegistry struct {
	overrides map[arrivals.AirportCode]arrivals.Region
	minor     map[arrivals.AirportCode]arrivals.Region
	bulk      map[arrivals.AirportCode]arrivals.Region
}

// Resolve applies the precedence chain: override > minor > bulk. Pure
// given the loaded tables; returns the Unresolved zero Region when the
// code is absent from all three.
func (r *AirportRegistry) Resolve(code arrivals.AirportCode) arrivals.Region {
	for _, src := range []map[arrivals.AirportCode]arrivals.Region{r.overrides, r.minor, r.bulk} {
		if region, exists := src[code]; exists {
			return region
		}
	}
	return arrivals.Region{}
}

func (r *AirportRegistry) Len() int {
	return len(r.overrides) + len(r.minor) + len(r.bulk)
}

// {{{ LoadAirportRegistry

func LoadAirportRegistry(overridesPath, minorPath, bulkPath string, states *StateTable) (*AirportRegistry, error) {
	reg := AirportRegistry{}
	var err error

	if reg.overrides, err = loadTwoColumnAirports(overridesPath, states); err != nil {
		return nil, fmt.Errorf("overrides %s: %w", overridesPath, err)
	}
	if reg.minor, err = loadTwoColumnAirports(minorPath, states); err != nil {
		return nil, fmt.Errorf("minor airports %s: %w", minorPath, err)
	}
	if reg.bulk, err = loadBulkAirports(bulkPath); err != nil {
		return nil, fmt.Errorf("bulk airports %s: %w", bulkPath, err)
	}

	return &reg, nil
}

// }}}
// {{{ loadTwoColumnAirports

func loadTwoColumnAirports(path string, states *StateTable) (map[arrivals.AirportCode]arrivals.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := map[arrivals.AirportCode]arrivals.Region{}

	rdr := csv.NewReader(f)
	rdr.Comma = '\t'
	for {
		fields, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("want 2 columns, got %d: %v", len(fields), fields)
		}

		code := arrivals.AirportCode(strings.TrimSpace(fields[0]))
		location := strings.TrimSpace(fields[1])
		if code == "" || location == "" {
			return nil, fmt.Errorf("blank code or location: %v", fields)
		}

		// A location that matches a state code is a domestic airport;
		// anything else is a country name.
		if states.Has(location) {
			m[code] = arrivals.UsStateRegion(location)
		} else {
			m[code] = arrivals.ForeignRegion(location)
		}
	}

	return m, nil
}

// }}}
// {{{ loadBulkAirports

func loadBulkAirports(path string) (map[arrivals.AirportCode]arrivals.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.Comma = '\t'
	rdr.FieldsPerRecord = -1 // the sheet export has the odd ragged row

	headers, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("header row: %v", err)
	}
	col := map[string]int{}
	for i, h := range headers {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{"City", "Country", "Code"} {
		if _, exists := col[want]; !exists {
			return nil, fmt.Errorf("header row missing %q (have %v)", want, headers)
		}
	}

	m := map[arrivals.AirportCode]arrivals.Region{}

	for {
		fields, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			if col[name] < len(fields) {
				return strings.TrimSpace(fields[col[name]])
			}
			return ""
		}

		code := arrivals.AirportCode(get("Code"))
		city, country := get("City"), get("Country")
		if code == "" {
			continue
		}

		if country == "USA" {
			state, ok := bulkStateFor(code, city)
			if !ok {
				continue
			}
			m[code] = arrivals.UsStateRegion(state)
			continue
		}

		// SJU is listed under a country, but Puerto Rico is domestic.
		if code == "SJU" {
			m[code] = arrivals.UsStateRegion("PR")
			continue
		}
		// "Country" sometimes reads "City, Country".
		if idx := strings.Index(country, ", "); idx >= 0 {
			country = country[idx+2:]
		}
		if country == "" {
			continue
		}
		m[code] = arrivals.ForeignRegion(country)
	}

	return m, nil
}

// }}}
// {{{ bulkStateFor

func bulkStateFor(code arrivals.AirportCode, city string) (string, bool) {
	if state, exists := bulkCorrections[code]; exists {
		return state, true
	}

	bits := strings.Split(city, ", ")
	state := bits[len(bits)-1]
	state = strings.SplitN(state, " ", 2)[0]

	// One sheet row has "La" where it means Louisiana.
	if state == "La" {
		state = "LA"
	}

	if state == "" {
		return "", false
	}
	return state, true
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
