// Package traffic polls the public flight-tracking networks and merges their
// positions for the live map. Feeds are read-only and unauthenticated; they
// run on a fixed cadence independent of any user-triggered CRUD work.
package traffic

import (
	"context"
	"strings"
)

// Flight is one airborne (or taxiing) connection on a tracking network.
type Flight struct {
	Callsign    string
	Pilot       string
	Latitude    float64
	Longitude   float64
	Altitude    int
	Groundspeed int
	Heading     int
	Departure   string
	Arrival     string
	Aircraft    string
	Network     string
}

// Feed fetches a point-in-time list of flights from one network.
type Feed interface {
	Name() string
	Fetch(ctx context.Context) ([]Flight, error)
}

// Merge combines feed results in priority order, deduplicating by callsign.
// The first feed to report a callsign wins; later feeds only add callsigns
// not seen before.
func Merge(batches ...[]Flight) []Flight {
	var merged []Flight
	seen := make(map[string]struct{})
	for _, batch := range batches {
		for _, f := range batch {
			key := strings.ToUpper(strings.TrimSpace(f.Callsign))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, f)
		}
	}
	return merged
}
