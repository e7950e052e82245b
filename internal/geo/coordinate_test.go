package geo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gpslogger/internal/state"
)

func TestFormatDegrees(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 35, want: "35.0"},
		{in: 139.6917, want: "139.6917"},
		{in: -91, want: "-91.0"},
		{in: -181, want: "-181.0"},
		{in: 0, want: "0.0"},
		{in: -0.5, want: "-0.5"},
		{in: 0.0001, want: "0.0001"},
		{in: 0.00001, want: "1e-05"},
		{in: -1.5e-07, want: "-1.5e-07"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatDegrees(tt.in))
	}
}

func TestCoordinateString(t *testing.T) {
	require.Equal(t, "-91.0,-181.0", Coordinate{Latitude: UnknownLatitude, Longitude: UnknownLongitude}.String())
	require.Equal(t, "35.0,139.0", Coordinate{Latitude: 35, Longitude: 139}.String())
}

func TestLoadLastKnown(t *testing.T) {
	s := state.NewMemoryStore()

	c, ok, err := LoadLastKnown(s)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, Coordinate{Latitude: UnknownLatitude, Longitude: UnknownLongitude}, c)

	require.NoError(t, state.SetFloat(s, state.KeyLatitude, 35.6895))
	c, ok, err = LoadLastKnown(s)
	require.NoError(t, err)
	require.False(t, ok, "a lone latitude is not a fix")
	require.Equal(t, Coordinate{Latitude: 35.6895, Longitude: UnknownLongitude}, c)

	require.NoError(t, SaveCurrent(s, Coordinate{Latitude: 35.6895, Longitude: 139.6917}))
	c, ok, err = LoadLastKnown(s)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Coordinate{Latitude: 35.6895, Longitude: 139.6917}, c)
}

func TestLoadLastKnownMalformedComponentFallsBackAlone(t *testing.T) {
	s := state.NewMemoryStore()
	require.NoError(t, state.SetString(s, state.KeyLatitude, "north"))
	require.NoError(t, state.SetString(s, state.KeyLongitude, "139.0"))

	c, ok, err := LoadLastKnown(s)
	require.Error(t, err)
	require.False(t, ok)
	require.Equal(t, Coordinate{Latitude: UnknownLatitude, Longitude: 139}, c)
}

func TestLoadLastKnownRejectsNonFinite(t *testing.T) {
	s := state.NewMemoryStore()
	require.NoError(t, state.SetString(s, state.KeyLatitude, "35.0"))
	require.NoError(t, state.SetString(s, state.KeyLongitude, "+Inf"))

	c, ok, err := LoadLastKnown(s)
	require.ErrorIs(t, err, state.ErrNotFinite)
	require.False(t, ok)
	require.Equal(t, Coordinate{Latitude: 35, Longitude: UnknownLongitude}, c)
}

func TestLoadLastKnownKeepsOutOfRangeValues(t *testing.T) {
	s := state.NewMemoryStore()
	require.NoError(t, SaveCurrent(s, Coordinate{Latitude: 95, Longitude: 10}))

	c, ok, err := LoadLastKnown(s)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, c.Valid())
	require.Equal(t, "95.0,10.0", c.String())
}
