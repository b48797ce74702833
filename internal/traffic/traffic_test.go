package traffic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_DedupesByCallsignFirstFeedWins(t *testing.T) {
	vatsim := []Flight{
		{Callsign: "HCW101", Network: "VATSIM"},
		{Callsign: "HCW102", Network: "VATSIM"},
	}
	ivao := []Flight{
		{Callsign: "hcw101 ", Network: "IVAO"}, // same callsign, different casing
		{Callsign: "HCW203", Network: "IVAO"},
	}

	merged := Merge(vatsim, ivao)
	require.Len(t, merged, 3)
	byCallsign := map[string]string{}
	for _, f := range merged {
		byCallsign[f.Callsign] = f.Network
	}
	assert.Equal(t, "VATSIM", byCallsign["HCW101"])
	assert.Equal(t, "IVAO", byCallsign["HCW203"])
}

func TestMerge_SkipsBlankCallsigns(t *testing.T) {
	merged := Merge([]Flight{{Callsign: "  "}, {Callsign: "HCW1"}})
	require.Len(t, merged, 1)
	assert.Equal(t, "HCW1", merged[0].Callsign)
}

func TestVatsimFeed_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"pilots": [
				{
					"name": "Ana Ruiz", "callsign": "HCW101",
					"latitude": 40.47, "longitude": -3.56,
					"altitude": 36000, "groundspeed": 447, "heading": 270,
					"flight_plan": {"aircraft_short": "A320", "departure": "LEMD", "arrival": "EGLL"}
				},
				{"name": "No Plan", "callsign": "HCW102", "latitude": 1, "longitude": 2}
			]
		}`))
	}))
	defer srv.Close()

	flights, err := NewVatsimFeed(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, "HCW101", flights[0].Callsign)
	assert.Equal(t, "LEMD", flights[0].Departure)
	assert.Equal(t, "EGLL", flights[0].Arrival)
	assert.Equal(t, 36000, flights[0].Altitude)
	assert.Equal(t, "VATSIM", flights[0].Network)
	assert.Empty(t, flights[1].Departure)
}

func TestIvaoFeed_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"clients": {
				"pilots": [
					{
						"callsign": "HCW203", "userId": 551234,
						"lastTrack": {"latitude": 52.3, "longitude": 4.7, "altitude": 12000, "groundSpeed": 320, "heading": 90},
						"flightPlan": {"departureId": "EHAM", "arrivalId": "LFPG", "aircraftId": "B738"}
					}
				]
			}
		}`))
	}))
	defer srv.Close()

	flights, err := NewIvaoFeed(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "HCW203", flights[0].Callsign)
	assert.Equal(t, "EHAM", flights[0].Departure)
	assert.Equal(t, 320, flights[0].Groundspeed)
	assert.Equal(t, "IVAO", flights[0].Network)
}

func TestFeed_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewVatsimFeed(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

// stubFeed lets tracker tests run without HTTP servers.
type stubFeed struct {
	name    string
	flights []Flight
	err     error
}

func (s *stubFeed) Name() string                                 { return s.name }
func (s *stubFeed) Fetch(ctx context.Context) ([]Flight, error) { return s.flights, s.err }

func TestTracker_PartialFeedFailureStillReturnsFlights(t *testing.T) {
	tracker := NewTracker(
		&stubFeed{name: "VATSIM", err: errors.New("down")},
		&stubFeed{name: "IVAO", flights: []Flight{{Callsign: "HCW203"}}},
	)

	flights, err := tracker.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "HCW203", flights[0].Callsign)
}

func TestTracker_AllFeedsFailing(t *testing.T) {
	tracker := NewTracker(
		&stubFeed{name: "VATSIM", err: errors.New("down")},
		&stubFeed{name: "IVAO", err: errors.New("also down")},
	)

	_, err := tracker.Fetch(context.Background())
	require.Error(t, err)
}

func TestTracker_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	failing := &stubFeed{name: "VATSIM", err: errors.New("down")}
	healthy := &stubFeed{name: "IVAO", flights: []Flight{{Callsign: "HCW203"}}}
	tracker := NewTracker(failing, healthy)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := tracker.Fetch(ctx)
		require.NoError(t, err, "healthy feed keeps the tracker alive")
	}

	// After three consecutive failures the breaker stops calling the feed.
	failing.err = nil
	failing.flights = []Flight{{Callsign: "HCW101"}}
	flights, err := tracker.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1, "open breaker skips the recovered feed until its cooldown")
	assert.Equal(t, "HCW203", flights[0].Callsign)
}

func TestStore_UpdateAndOffline(t *testing.T) {
	store := &Store{}

	store.Update([]Flight{{Callsign: "HCW101"}}, nil)
	snap := store.Snapshot()
	require.Len(t, snap.Flights, 1)
	assert.False(t, snap.IsOffline())

	store.Update(nil, errors.New("down"))
	snap = store.Snapshot()
	assert.Len(t, snap.Flights, 1, "previous data kept on failure")
	assert.Error(t, snap.LastError)
	assert.False(t, snap.IsOffline(), "one failure is not offline yet")

	store.Update(nil, errors.New("still down"))
	assert.True(t, store.Snapshot().IsOffline())

	store.Update([]Flight{{Callsign: "HCW102"}}, nil)
	snap = store.Snapshot()
	assert.False(t, snap.IsOffline())
	assert.NoError(t, snap.LastError)
}
