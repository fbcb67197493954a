package arrivals

import (
	"fmt"
	"math"
	"time"
)

// The extracts carry wall-clock stamps with no zone attached.
const WallClockLayout = "2006-01-02 15:04"

// MaxFlightTime is the implausibility bound for anything arriving at
// this airport; durations strictly greater are excluded. A hard domain
// constant, not derived from data.
const MaxFlightTime = 19 * time.Hour

// ComputeDuration attaches the origin's zone to the departure stamp
// and the monitored airport's zone to the arrival stamp, then takes
// the difference. A naive subtraction would mis-state any flight that
// crosses zone boundaries by whole hours.
func ComputeDuration(depDate, depTime, arrDate, arrTime string, dep, arr *time.Location) (time.Duration, error) {
	d, err := time.ParseInLocation(WallClockLayout, depDate+" "+depTime, dep)
	if err != nil {
		return 0, fmt.Errorf("bad departure stamp %q %q: %v", depDate, depTime, err)
	}
	a, err := time.ParseInLocation(WallClockLayout, arrDate+" "+arrTime, arr)
	if err != nil {
		return 0, fmt.Errorf("bad arrival stamp %q %q: %v", arrDate, arrTime, err)
	}
	return a.Sub(d), nil
}

// RoundedHours buckets a duration to the nearest whole hour, for the
// flight-time distribution.
func RoundedHours(d time.Duration) int {
	return int(math.Round(d.Hours()))
}
