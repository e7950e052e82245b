// Package compose builds the status text posted for the current location.
package compose

import (
	"context"

	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/state"
)

const MapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

type Composer struct {
	store    state.Store
	resolver geo.Resolver
	diag     *logging.Diagnostics
}

// New panics on a nil store. A nil resolver never finds a town.
func New(store state.Store, resolver geo.Resolver, diag *logging.Diagnostics) *Composer {
	if store == nil {
		panic("compose.New: store must not be nil")
	}
	if resolver == nil {
		resolver = geo.NopResolver{}
	}
	return &Composer{store: store, resolver: resolver, diag: diag}
}

// MapsURL links to a map search for the coordinate.
func MapsURL(c geo.Coordinate) string {
	return MapsSearchURL + c.String()
}

// Message prefixes the link with the town and a space when a town is known.
func Message(town string, url string) string {
	if town == "" {
		return url
	}
	return town + " " + url
}

// Compose reads the last known fix and returns "<town> <url>" or "<url>".
// Components that were never stored embed their unknown stand-in. It has no
// side effects apart from diagnostics.
func (c *Composer) Compose(ctx context.Context) string {
	coord, _, err := geo.LoadLastKnown(c.store)
	if err != nil {
		c.diag.Record("compose.Compose", "loadLastKnown", err)
	}
	town, err := c.resolver.ResolveTown(ctx, coord)
	if err != nil {
		c.diag.Record("compose.Compose", "resolveTown", err)
		town = ""
	}
	return Message(town, MapsURL(coord))
}
