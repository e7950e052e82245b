package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gpslogger/internal/geo"
)

// ParseFix accepts either "lat,lon" in decimal degrees or an NMEA RMC
// sentence ($GPRMC / $GNRMC) with an active fix.
func ParseFix(line string) (geo.Coordinate, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if line == "" || strings.HasPrefix(line, "#") {
		return geo.Coordinate{}, false
	}
	if strings.HasPrefix(line, "$") {
		return parseRMC(line)
	}
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Latitude: lat, Longitude: lon}
	return c, c.Valid()
}

func parseRMC(sentence string) (geo.Coordinate, bool) {
	body := strings.TrimPrefix(sentence, "$")
	if star := strings.IndexByte(body, '*'); star >= 0 {
		if !validChecksum(body[:star], body[star+1:]) {
			return geo.Coordinate{}, false
		}
		body = body[:star]
	}
	fields := strings.Split(body, ",")
	if len(fields) < 7 {
		return geo.Coordinate{}, false
	}
	switch fields[0] {
	case "GPRMC", "GNRMC":
	default:
		return geo.Coordinate{}, false
	}
	if fields[2] != "A" {
		return geo.Coordinate{}, false
	}
	lat, ok := nmeaDegrees(fields[3], fields[4], 2, "N", "S")
	if !ok {
		return geo.Coordinate{}, false
	}
	lon, ok := nmeaDegrees(fields[5], fields[6], 3, "E", "W")
	if !ok {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Latitude: lat, Longitude: lon}
	return c, c.Valid()
}

// nmeaDegrees converts (d)ddmm.mmmm plus hemisphere into signed decimal
// degrees rounded to six places.
func nmeaDegrees(value, hemisphere string, degDigits int, positive, negative string) (float64, bool) {
	if len(value) < degDigits+2 {
		return 0, false
	}
	deg, err := strconv.Atoi(value[:degDigits])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(value[degDigits:], 64)
	if err != nil || minutes >= 60 {
		return 0, false
	}
	out := float64(deg) + minutes/60
	switch hemisphere {
	case positive:
	case negative:
		out = -out
	default:
		return 0, false
	}
	return math.Round(out*1e6) / 1e6, true
}

func validChecksum(payload, sum string) bool {
	var x byte
	for i := 0; i < len(payload); i++ {
		x ^= payload[i]
	}
	return strings.EqualFold(strings.TrimSpace(sum), fmt.Sprintf("%02X", x))
}
