package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywindva/hicrew-tui/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.New()
	client, err := NewClient(srv.URL+"/api", sess)
	require.NoError(t, err)
	return client, sess, srv
}

func TestList_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		assert.Equal(t, "/api/aircraft", r.URL.Path)
		_, _ = w.Write([]byte(`{"aircraft": [{"id": 1, "icao": "A320"}]}`))
	}))

	sess.Begin("tok-1", session.PilotSummary{})
	records, err := client.List(context.Background(), "aircraft")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotReqID)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID())
	assert.Equal(t, "A320", records[0].Field("icao"))
}

func TestList_BareArrayResponse(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 7}, {"id": 8}]`))
	}))

	records, err := client.List(context.Background(), "events")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "7", records[0].ID())
}

func TestCreate_UnwrapsResourceKey(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "A320", payload["icao"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"aircraft": {"id": 12, "icao": "A320"}}`))
	}))

	rec, err := client.Create(context.Background(), "aircraft", map[string]any{"icao": "A320"})
	require.NoError(t, err)
	assert.Equal(t, "12", rec.ID())
}

func TestUpdate_UsesPatchAndIDPath(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/social-networks/3", r.URL.Path)
		_, _ = w.Write([]byte(`{"social_network": {"id": 3, "name": "Discord"}}`))
	}))

	rec, err := client.Update(context.Background(), "social-networks", "3", map[string]any{"name": "Discord"})
	require.NoError(t, err)
	assert.Equal(t, "Discord", rec.Field("name"))
}

func TestServerRejection_CarriesServerMessage(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "aircraft already exists"}`))
	}))

	_, err := client.Create(context.Background(), "aircraft", map[string]any{"icao": "A320"})
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "aircraft already exists", apiErr.Message)
	assert.Equal(t, "aircraft already exists", UserMessage(err))
}

func TestServerError_FallsBackToGenericMessage(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))

	_, err := client.List(context.Background(), "routes")
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "server error, try again later", apiErr.Message)
}

func TestUnauthorized_InvalidatesSessionExactlyOnce(t *testing.T) {
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "token expired"}`))
	}))

	var invalidations int32
	sess.OnInvalidate(func() { atomic.AddInt32(&invalidations, 1) })
	sess.Begin("stale", session.PilotSummary{Callsign: "HCW001"})

	// Two managers racing into the same expired token.
	_, err1 := client.List(context.Background(), "aircraft")
	_, err2 := client.List(context.Background(), "hubs")

	assert.True(t, IsUnauthorized(err1))
	require.Error(t, err2)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, int32(1), atomic.LoadInt32(&invalidations))
}

func TestLogin_BadCredentialsDoNotEndSession(t *testing.T) {
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid credentials"}`))
	}))

	var invalidations int32
	sess.OnInvalidate(func() { atomic.AddInt32(&invalidations, 1) })

	_, _, err := client.Login(context.Background(), "pilot@example.org", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", UserMessage(err))
	assert.Zero(t, atomic.LoadInt32(&invalidations))
}

func TestLogin_Success(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token": "t-9", "pilot": {"id": 4, "callsign": "HCW004", "permissions": ["manage_fleet"]}}`))
	}))

	token, pilot, err := client.Login(context.Background(), "pilot@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t-9", token)
	assert.Equal(t, "HCW004", pilot.Callsign)
	assert.Equal(t, []string{"manage_fleet"}, pilot.Permissions)
}

func TestUserMessage_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(srv.URL, session.New())
	require.NoError(t, err)
	srv.Close() // force a connection error

	_, listErr := client.List(context.Background(), "aircraft")
	require.Error(t, listErr)
	assert.Equal(t, "request failed, check your connection and try again", UserMessage(listErr))
}
