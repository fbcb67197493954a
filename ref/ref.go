// Package ref contains the reference lookups the pipeline consults:
// airport-code geography, state codes, and departure time zones.
// Everything is loaded once at startup into a Registries value that
// gets passed around explicitly; it is read-only for the rest of the
// run. Any "self-correction" discovered mid-run belongs in the source
// tables, not in code.
package ref

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	// Dir holds the reference tables.
	Dir string

	// Filenames within Dir; the defaults match the hand-maintained
	// tables as checked in.
	StateCodes    string
	Overrides     string
	MinorAirports string
	BulkAirports  string
	TimeZones     string
}

func DefaultConfig(dir string) Config {
	return Config{
		Dir:           dir,
		StateCodes:    "state_code_to_name.tsv",
		Overrides:     "airport_overrides.tsv",
		MinorAirports: "minor_airports.tsv",
		BulkAirports:  "airport_codes.tsv",
		TimeZones:     "time_zones.csv",
	}
}

// Registries is the explicit pipeline context: the four loaded lookup
// tables.
type Registries struct {
	Airports *AirportRegistry
	States   *StateTable
	Zones    *ZoneTable
}

// Load reads all the tables. Any malformed table is fatal; a pipeline
// run with a broken registry would silently corrupt every duration it
// computes.
func Load(cfg Config) (*Registries, error) {
	states, err := LoadStateTable(filepath.Join(cfg.Dir, cfg.StateCodes))
	if err != nil {
		return nil, fmt.Errorf("ref: state codes: %w", err)
	}

	zones, err := LoadZoneTable(filepath.Join(cfg.Dir, cfg.TimeZones))
	if err != nil {
		return nil, fmt.Errorf("ref: time zones: %w", err)
	}

	airports, err := LoadAirportRegistry(
		filepath.Join(cfg.Dir, cfg.Overrides),
		filepath.Join(cfg.Dir, cfg.MinorAirports),
		filepath.Join(cfg.Dir, cfg.BulkAirports),
		states)
	if err != nil {
		return nil, fmt.Errorf("ref: airports: %w", err)
	}

	return &Registries{Airports: airports, States: states, Zones: zones}, nil
}
