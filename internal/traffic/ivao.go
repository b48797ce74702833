package traffic

import (
	"context"
	"fmt"
	"net/http"
)

// ivaoWhazzup mirrors the subset of the IVAO Whazzup v2 payload the map needs.
type ivaoWhazzup struct {
	Clients struct {
		Pilots []ivaoPilot `json:"pilots"`
	} `json:"clients"`
}

type ivaoPilot struct {
	Callsign  string `json:"callsign"`
	UserID    int64  `json:"userId"`
	LastTrack *struct {
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Altitude    int     `json:"altitude"`
		GroundSpeed int     `json:"groundSpeed"`
		Heading     int     `json:"heading"`
	} `json:"lastTrack"`
	FlightPlan *struct {
		DepartureID string `json:"departureId"`
		ArrivalID   string `json:"arrivalId"`
		AircraftID  string `json:"aircraftId"`
	} `json:"flightPlan"`
}

// IvaoFeed reads the IVAO Whazzup v2 tracker.
type IvaoFeed struct {
	url  string
	http *http.Client
}

// NewIvaoFeed builds a feed against the given tracker URL.
func NewIvaoFeed(url string) *IvaoFeed {
	return &IvaoFeed{
		url:  url,
		http: &http.Client{Timeout: feedTimeout},
	}
}

func (f *IvaoFeed) Name() string { return "IVAO" }

func (f *IvaoFeed) Fetch(ctx context.Context) ([]Flight, error) {
	var data ivaoWhazzup
	if err := fetchJSON(ctx, f.http, f.url, &data); err != nil {
		return nil, fmt.Errorf("ivao feed: %w", err)
	}

	flights := make([]Flight, 0, len(data.Clients.Pilots))
	for _, p := range data.Clients.Pilots {
		flight := Flight{
			Callsign: p.Callsign,
			Pilot:    fmt.Sprintf("IVAO %d", p.UserID),
			Network:  f.Name(),
		}
		if t := p.LastTrack; t != nil {
			flight.Latitude = t.Latitude
			flight.Longitude = t.Longitude
			flight.Altitude = t.Altitude
			flight.Groundspeed = t.GroundSpeed
			flight.Heading = t.Heading
		}
		if fp := p.FlightPlan; fp != nil {
			flight.Departure = fp.DepartureID
			flight.Arrival = fp.ArrivalID
			flight.Aircraft = fp.AircraftID
		}
		flights = append(flights, flight)
	}
	return flights, nil
}
