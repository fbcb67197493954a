package arrivals

import (
	"testing"
	"time"
)

type durationFormatTest struct {
	d    time.Duration
	text string
}

var durationFormatTests = []durationFormatTest{
	{0, "0:00:00"},
	{30 * time.Minute, "0:30:00"},
	{5*time.Hour + 30*time.Minute, "5:30:00"},
	{19 * time.Hour, "19:00:00"},
	{25*time.Hour + 5*time.Minute + 9*time.Second, "25:05:09"}, // no day rollover, unlike timedelta
	{-1 * time.Hour, "-1:00:00"},
}

func TestFormatDuration(t *testing.T) {
	for _, test := range durationFormatTests {
		if got := FormatDuration(test.d); got != test.text {
			t.Errorf("%s - expected %q, got %q", test.d, test.text, got)
		}
		back, err := ParseRowDuration(test.text)
		if err != nil {
			t.Fatalf("%q: %v", test.text, err)
		}
		if back != test.d {
			t.Errorf("%q - expected %s back, got %s", test.text, test.d, back)
		}
	}
}

func TestParseAirlines(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"American", []string{"American"}},
		{"Delta / KLM / Air France", []string{"Delta", "KLM", "Air France"}},
		{"", []string{}},
	}
	for _, test := range tests {
		got := ParseAirlines(test.raw)
		if len(got) != len(test.want) {
			t.Errorf("%q - expected %v, got %v", test.raw, test.want, got)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("%q - expected %v, got %v", test.raw, test.want, got)
			}
		}
	}
}

func TestRowRoundTrip(t *testing.T) {
	f := NormalizedFlight{
		Origin:     "Los Angeles",
		OriginCode: "LAX",
		Date:       "2023-06-01",
		Terminal:   "B",
		Equipment:  "B738",
		Flight:     "AA 100",
		Airlines:   []string{"American"},
		Nation:     NationUS,
		State:      "California",
		FlightTime: 5*time.Hour + 30*time.Minute,
	}

	back, err := FromRow(f.ToRow())
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != f.String() {
		t.Errorf("round trip changed the record: %s vs %s", f, back)
	}
	if back.FlightTime != f.FlightTime {
		t.Errorf("round trip changed the duration: %s vs %s", f.FlightTime, back.FlightTime)
	}
}

func TestLocationKey(t *testing.T) {
	domestic := NormalizedFlight{Nation: NationUS, State: "California"}
	if domestic.LocationKey() != "California" {
		t.Errorf("expected state key, got %q", domestic.LocationKey())
	}
	foreign := NormalizedFlight{Nation: "France"}
	if foreign.LocationKey() != "France" {
		t.Errorf("expected nation key, got %q", foreign.LocationKey())
	}
	nullState := NormalizedFlight{Nation: NationUS}
	if nullState.LocationKey() != NationUS {
		t.Errorf("expected nation fallback, got %q", nullState.LocationKey())
	}
}
