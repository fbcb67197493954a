package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nao-bostraffic/arrivals"
	"github.com/nao-bostraffic/arrivals/ref"
)

// UnknownStatePolicy decides what happens to a domestic flight whose
// state code has no entry in the state table. The script lineage
// flip-flopped on this, so it's configuration rather than a guess.
type UnknownStatePolicy int

const (
	// AcceptWithNullState keeps the flight under nation "United
	// States" with an empty state column.
	AcceptWithNullState UnknownStatePolicy = iota
	// DropFlight rejects the row as if the airport code were missing.
	DropFlight
)

func ParseUnknownStatePolicy(s string) (UnknownStatePolicy, error) {
	switch s {
	case "accept":
		return AcceptWithNullState, nil
	case "drop":
		return DropFlight, nil
	}
	return 0, fmt.Errorf("unknown-state policy '%s' not one of {accept,drop}", s)
}

// Normalizer resolves raw arrival rows into NormalizedFlights, or
// into classified rejections. It accumulates the per-code miss counter
// across the run; everything else it touches is read-only.
type Normalizer struct {
	Reg            *ref.Registries
	ArrivalZone    *time.Location // the monitored airport's zone
	OnUnknownState UnknownStatePolicy

	// Misses counts, per unresolvable airport code, how many rows were
	// dropped for it; triage fodder for the reference tables.
	Misses map[arrivals.AirportCode]int

	Log zerolog.Logger
}

func NewNormalizer(reg *ref.Registries, arrivalZone *time.Location, policy UnknownStatePolicy, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		Reg:            reg,
		ArrivalZone:    arrivalZone,
		OnUnknownState: policy,
		Misses:         map[arrivals.AirportCode]int{},
		Log:            log,
	}
}

// Normalize runs one row through the filter chain: status, geography,
// arrival-time presence, duration bounds. On acceptance it returns the
// flight and NotExcluded; on rejection, nil and the reason. The error
// return is reserved for fatal registry defects (a resolvable region
// with no time zone) and malformed extracts; per-row rejections never
// produce an error.
func (n *Normalizer) Normalize(row arrivals.RawRow) (*arrivals.NormalizedFlight, arrivals.ExclusionReason, error) {
	// 1. Status filter.
	status := row.Status()
	switch {
	case strings.Contains(status, "DIVERTED"):
		return nil, arrivals.Diverted, nil
	case strings.Contains(status, "Canceled"):
		return nil, arrivals.Canceled, nil
	case strings.Contains(status, "En Route"):
		return nil, arrivals.EnRoute, nil
	case strings.Contains(status, "Unknown"):
		// Stale-status proxy: if it landed exactly when scheduled, the
		// flight is fine and only the status field is junk.
		if !row.ArrivedAsScheduled() {
			return nil, arrivals.IrregularStatus, nil
		}
	}

	// 2. Geography resolution.
	code := row.OriginCode()
	region := n.Reg.Airports.Resolve(code)
	if !region.IsResolved() {
		n.Misses[code]++
		n.Log.Warn().Str("code", string(code)).Msg("missing airport code")
		return nil, arrivals.MissingAirportCode, nil
	}

	nation := region.Nation()
	state := ""
	if region.Type == arrivals.UsState {
		name, err := n.Reg.States.Name(region.StateCode)
		switch {
		case err == nil:
			state = name
		case errors.Is(err, ref.ErrUnknownStateCode):
			n.Log.Warn().Str("code", string(code)).Str("state", region.StateCode).
				Msg("state code not in state table")
			if n.OnUnknownState == DropFlight {
				return nil, arrivals.MissingAirportCode, nil
			}
			// else: accepted with a null state column
		default:
			return nil, arrivals.NotExcluded, err
		}
	}

	// 3. Arrival-time presence.
	if row.ArrivalTime() == "" {
		return nil, arrivals.NoArrivalTime, nil
	}

	flight := arrivals.NormalizedFlight{
		Origin:     row.Origin(),
		OriginCode: code,
		Date:       row.ArrivalDate(),
		Terminal:   row.Terminal(),
		Equipment:  row.Equipment(),
		Flight:     row.Flight(),
		Airlines:   arrivals.ParseAirlines(row.Airline()),
		Nation:     nation,
		State:      state,
	}

	// 4. Duration. A zone miss for a region we resolved is a registry
	// configuration defect; continuing would silently mis-time every
	// flight from that region, so it propagates as fatal.
	depZone, err := n.Reg.ZoneFor(flight)
	if err != nil {
		return nil, arrivals.NotExcluded, err
	}
	d, err := arrivals.ComputeDuration(
		row.DepartureDate(), row.DepartureTime(),
		row.ArrivalDate(), row.ArrivalTime(),
		depZone, n.ArrivalZone)
	if err != nil {
		return nil, arrivals.NotExcluded, err
	}

	if d < 0 {
		return nil, arrivals.NegativeDuration, nil
	}
	if d > arrivals.MaxFlightTime {
		return nil, arrivals.ExcessiveDuration, nil
	}

	flight.FlightTime = d
	return &flight, arrivals.NotExcluded, nil
}
