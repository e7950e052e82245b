// Package geo holds the coordinate type, its persisted form and the town
// name lookup used when composing a location message.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gpslogger/internal/state"
)

// Legacy stand-ins written into links when no fix has been recorded yet.
// Both lie outside the valid range so they never collide with a real fix.
const (
	UnknownLatitude  = -91.0
	UnknownLongitude = -181.0
)

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return FormatDegrees(c.Latitude) + "," + FormatDegrees(c.Longitude)
}

// LoadLastKnown reads the last persisted fix. Each component falls back to
// its unknown stand-in on its own when absent or unparsable, so a stored
// latitude survives a missing longitude. ok reports whether both parsed.
// Decode failures are joined into err alongside the defaulted coordinate.
func LoadLastKnown(s state.Store) (Coordinate, bool, error) {
	lat, latOK, latErr := loadComponent(s, state.KeyLatitude, UnknownLatitude)
	lon, lonOK, lonErr := loadComponent(s, state.KeyLongitude, UnknownLongitude)
	return Coordinate{Latitude: lat, Longitude: lon}, latOK && lonOK, errors.Join(latErr, lonErr)
}

func loadComponent(s state.Store, key string, fallback float64) (float64, bool, error) {
	v, ok, err := state.Float(s, key)
	if err != nil {
		return fallback, false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fallback, false, nil
	}
	return v, true, nil
}

func SaveCurrent(s state.Store, c Coordinate) error {
	if err := state.SetFloat(s, state.KeyLatitude, c.Latitude); err != nil {
		return fmt.Errorf("save latitude: %w", err)
	}
	if err := state.SetFloat(s, state.KeyLongitude, c.Longitude); err != nil {
		return fmt.Errorf("save longitude: %w", err)
	}
	return nil
}

// FormatDegrees prints the shortest exact decimal and always keeps a
// fractional part, so 35 becomes "35.0". Magnitudes below 1e-4 or from 1e16
// up switch to exponent form ("1e-05").
func FormatDegrees(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
