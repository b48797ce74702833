package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginAndHas(t *testing.T) {
	s := New()
	assert.False(t, s.Authenticated())
	assert.False(t, s.Has("manage_fleet"))

	s.Begin("tok", PilotSummary{
		Callsign:    "HCW001",
		Permissions: []string{"manage_fleet", " manage_events ", ""},
	})

	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok", s.Token())
	assert.True(t, s.Has("manage_fleet"))
	assert.True(t, s.Has("manage_events"))
	assert.False(t, s.Has("manage_ranks"))
}

func TestInvalidateFiresHooksOnce(t *testing.T) {
	s := New()
	fired := 0
	s.OnInvalidate(func() { fired++ })

	s.Begin("tok", PilotSummary{Callsign: "HCW001"})
	s.Invalidate()
	s.Invalidate() // second 401 arriving late must be a no-op
	s.Invalidate()

	assert.Equal(t, 1, fired)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.False(t, s.Has("manage_fleet"))
}

func TestInvalidateWithoutSessionIsNoop(t *testing.T) {
	s := New()
	fired := 0
	s.OnInvalidate(func() { fired++ })
	s.Invalidate()
	assert.Zero(t, fired)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	got := TokenExpiry(tok)
	assert.True(t, got.Equal(exp), "expiry = %v, want %v", got, exp)
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
	assert.True(t, TokenExpiry("").IsZero())
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		pilot PilotSummary
		want  string
	}{
		{"full", PilotSummary{FirstName: "Ana", LastName: "Ruiz", Callsign: "HCW014"}, "Ana Ruiz (HCW014)"},
		{"no_callsign", PilotSummary{FirstName: "Ana", LastName: "Ruiz"}, "Ana Ruiz"},
		{"callsign_only", PilotSummary{Callsign: "HCW014"}, "HCW014"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pilot.DisplayName())
		})
	}
}
