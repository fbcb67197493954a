package ref

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao-bostraffic/arrivals"
)

func loadTestRegistries(t *testing.T) *Registries {
	t.Helper()
	reg, err := Load(DefaultConfig("testdata"))
	require.NoError(t, err)
	return reg
}

func TestResolvePrecedence(t *testing.T) {
	reg := loadTestRegistries(t)

	// ZZZ appears in all three sources; the override must win.
	assert.Equal(t, arrivals.UsStateRegion("MA"), reg.Airports.Resolve("ZZZ"))

	// ZZY appears in minor + bulk; the minor table must win.
	assert.Equal(t, arrivals.UsStateRegion("VT"), reg.Airports.Resolve("ZZY"))

	// LAX only appears in the bulk sheet.
	assert.Equal(t, arrivals.UsStateRegion("CA"), reg.Airports.Resolve("LAX"))
}

func TestResolveBulkCorrections(t *testing.T) {
	reg := loadTestRegistries(t)

	tests := []struct {
		code arrivals.AirportCode
		want arrivals.Region
	}{
		{"DCA", arrivals.UsStateRegion("DC")},     // ambiguous City field, hard-coded
		{"TRI", arrivals.UsStateRegion("TN")},     // multi-city City field
		{"MSY", arrivals.UsStateRegion("LA")},     // "La" in the sheet
		{"SJU", arrivals.UsStateRegion("PR")},     // filed under a country, but domestic
		{"CDG", arrivals.ForeignRegion("France")},
		{"LHR", arrivals.ForeignRegion("United Kingdom")}, // "England, United Kingdom"
		{"YYZ", arrivals.ForeignRegion("Canada")},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, reg.Airports.Resolve(test.code), "code %s", test.code)
	}
}

func TestResolveTwoColumnTables(t *testing.T) {
	reg := loadTestRegistries(t)

	// Locations matching a state code are domestic; others are countries.
	assert.Equal(t, arrivals.UsStateRegion("ME"), reg.Airports.Resolve("BHB"))
	assert.Equal(t, arrivals.ForeignRegion("Dominican Republic"), reg.Airports.Resolve("STI"))
	assert.Equal(t, arrivals.ForeignRegion("Canada"), reg.Airports.Resolve("YUL"))
}

func TestResolveUnknownCode(t *testing.T) {
	reg := loadTestRegistries(t)
	assert.False(t, reg.Airports.Resolve("QQQ").IsResolved())
}

func TestResolveIdempotent(t *testing.T) {
	reg := loadTestRegistries(t)
	first := reg.Airports.Resolve("ZZZ")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, reg.Airports.Resolve("ZZZ"))
	}
}

func TestStateTable(t *testing.T) {
	reg := loadTestRegistries(t)

	name, err := reg.States.Name("MA")
	require.NoError(t, err)
	assert.Equal(t, "Massachusetts", name)

	_, err = reg.States.Name("XX")
	assert.ErrorIs(t, err, ErrUnknownStateCode)
}

func TestZoneTable(t *testing.T) {
	reg := loadTestRegistries(t)

	loc, err := reg.Zones.Zone("Massachusetts")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = reg.Zones.Zone("Atlantis")
	assert.Error(t, err)
}

func TestZoneFor(t *testing.T) {
	reg := loadTestRegistries(t)

	domestic := arrivals.NormalizedFlight{Nation: arrivals.NationUS, State: "California"}
	loc, err := reg.ZoneFor(domestic)
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", loc.String())

	foreign := arrivals.NormalizedFlight{Nation: "France"}
	loc, err = reg.ZoneFor(foreign)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoadZoneTableRejectsBadZone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time_zones.csv")
	require.NoError(t, os.WriteFile(path, []byte("Narnia,Fake/Zone\n"), 0644))

	_, err := LoadZoneTable(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedStateTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "states.tsv")
	require.NoError(t, os.WriteFile(path, []byte("# source\nwrong\theaders\nMA\tMassachusetts\n"), 0644))

	_, err := LoadStateTable(path)
	assert.Error(t, err)
}
