package arrivals

import "fmt"

// AirportCode is the short alphanumeric token identifying a departure
// airport in the arrivals extract. Mostly IATA, but the feed contains
// the odd FAA identifier too ("5B2", "KOQU").
type AirportCode string

type RegionType int

const (
	Unresolved RegionType = iota
	UsState
	ForeignCountry
)

// Region is where a flight departed from: either a US state (held as
// the two/three letter code from the reference tables) or a foreign
// country (held by name). The zero value is Unresolved, which means
// the airport code was absent from every reference source.
type Region struct {
	Type      RegionType
	StateCode string // UsState only
	Country   string // ForeignCountry only
}

func UsStateRegion(code string) Region {
	return Region{Type: UsState, StateCode: code}
}

func ForeignRegion(country string) Region {
	return Region{Type: ForeignCountry, Country: country}
}

func (r Region) IsResolved() bool { return r.Type != Unresolved }

func (r Region) String() string {
	switch r.Type {
	case UsState:
		return "US:" + r.StateCode
	case ForeignCountry:
		return r.Country
	default:
		return "(unresolved)"
	}
}

// Nation as it appears in the output table.
const NationUS = "United States"

func (r Region) Nation() string {
	switch r.Type {
	case UsState:
		return NationUS
	case ForeignCountry:
		return r.Country
	default:
		return ""
	}
}

func (r Region) Validate() error {
	switch r.Type {
	case UsState:
		if r.StateCode == "" {
			return fmt.Errorf("UsState region with empty state code")
		}
	case ForeignCountry:
		if r.Country == "" {
			return fmt.Errorf("ForeignCountry region with empty country")
		}
	}
	return nil
}
