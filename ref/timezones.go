package ref

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nao-bostraffic/arrivals"
)

// ZoneTable maps a departure location (full state name for domestic
// flights, country name otherwise) to its IANA time zone. There is no
// legitimate "no timezone" case: a miss here means the reference
// tables are incoherent, and every duration computed after it would be
// silently wrong, so lookups fail hard and the caller is expected to
// abort the run.
type ZoneTable struct {
	byLocation map[string]*time.Location
}

func (t *ZoneTable) Zone(location string) (*time.Location, error) {
	loc, exists := t.byLocation[location]
	if !exists {
		return nil, fmt.Errorf("no time zone on file for %q; fix the time-zone table", location)
	}
	return loc, nil
}

func (t *ZoneTable) Len() int { return len(t.byLocation) }

// ZoneFor picks the departure zone for a resolved flight: keyed by
// state name when there is one, else by nation.
func (r *Registries) ZoneFor(f arrivals.NormalizedFlight) (*time.Location, error) {
	if f.State != "" {
		return r.Zones.Zone(f.State)
	}
	return r.Zones.Zone(f.Nation)
}

// LoadZoneTable reads "location,zone" lines and resolves every zone
// name against the tz database up front, so a typo in the table fails
// at startup rather than mid-run.
func LoadZoneTable(path string) (*ZoneTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := ZoneTable{byLocation: map[string]*time.Location{}}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		location, zoneName, found := strings.Cut(line, ",")
		if !found {
			return nil, fmt.Errorf("want 'location,zone', got %q", line)
		}
		location = strings.TrimSpace(location)
		zoneName = strings.TrimSpace(zoneName)

		loc, err := time.LoadLocation(zoneName)
		if err != nil {
			return nil, fmt.Errorf("location %q: %v", location, err)
		}
		t.byLocation[location] = loc
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &t, nil
}
