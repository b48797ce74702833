package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// vatsimData mirrors the subset of the VATSIM v3 data feed the map needs.
type vatsimData struct {
	Pilots []vatsimPilot `json:"pilots"`
}

type vatsimPilot struct {
	Name        string            `json:"name"`
	Callsign    string            `json:"callsign"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Altitude    int               `json:"altitude"`
	Groundspeed int               `json:"groundspeed"`
	Heading     int               `json:"heading"`
	FlightPlan  *vatsimFlightPlan `json:"flight_plan,omitempty"`
}

type vatsimFlightPlan struct {
	Aircraft  string `json:"aircraft_short"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// VatsimFeed reads the VATSIM v3 data feed.
type VatsimFeed struct {
	url  string
	http *http.Client
}

const feedTimeout = 10 * time.Second

// NewVatsimFeed builds a feed against the given data URL.
func NewVatsimFeed(url string) *VatsimFeed {
	return &VatsimFeed{
		url:  url,
		http: &http.Client{Timeout: feedTimeout},
	}
}

func (f *VatsimFeed) Name() string { return "VATSIM" }

func (f *VatsimFeed) Fetch(ctx context.Context) ([]Flight, error) {
	var data vatsimData
	if err := fetchJSON(ctx, f.http, f.url, &data); err != nil {
		return nil, fmt.Errorf("vatsim feed: %w", err)
	}

	flights := make([]Flight, 0, len(data.Pilots))
	for _, p := range data.Pilots {
		flight := Flight{
			Callsign:    p.Callsign,
			Pilot:       p.Name,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Altitude:    p.Altitude,
			Groundspeed: p.Groundspeed,
			Heading:     p.Heading,
			Network:     f.Name(),
		}
		if fp := p.FlightPlan; fp != nil {
			flight.Departure = fp.Departure
			flight.Arrival = fp.Arrival
			flight.Aircraft = fp.Aircraft
		}
		flights = append(flights, flight)
	}
	return flights, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
