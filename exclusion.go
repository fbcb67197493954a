package arrivals

import (
	"fmt"
	"sort"
)

// ExclusionReason classifies a row that failed validation. Rows are
// dropped, never retried; every drop gets exactly one reason, so the
// run summary can account for every input row.
type ExclusionReason int

const (
	NotExcluded ExclusionReason = iota
	Diverted
	Canceled
	EnRoute
	IrregularStatus
	MissingAirportCode
	NoArrivalTime
	NegativeDuration
	ExcessiveDuration
)

// The labels match the historical run summaries, so that anyone
// diffing old output against new gets like for like.
var exclusionLabels = map[ExclusionReason]string{
	Diverted:           "Diverted",
	Canceled:           "Canceled",
	EnRoute:            "En Route",
	IrregularStatus:    "Unknown status, irregular arrival time",
	MissingAirportCode: "Missing Airport Code",
	NoArrivalTime:      "No Arrival Time provided",
	NegativeDuration:   "Negative Flight Time",
	ExcessiveDuration:  "Flight Time longer than 19 hours",
}

func (r ExclusionReason) String() string {
	if s, exists := exclusionLabels[r]; exists {
		return s
	}
	return fmt.Sprintf("ExclusionReason(%d)", int(r))
}

// ExclusionTally accumulates per-reason counts across a whole run.
type ExclusionTally map[ExclusionReason]int

func (t ExclusionTally) Add(r ExclusionReason) { t[r]++ }

func (t ExclusionTally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

func (t ExclusionTally) String() string {
	reasons := []ExclusionReason{}
	for r := range t {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	str := fmt.Sprintf("Excluded flights: Total %d\n", t.Total())
	for _, r := range reasons {
		str += fmt.Sprintf("  %s: %d\n", r, t[r])
	}
	return str
}
