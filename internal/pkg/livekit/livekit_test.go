package livekit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	opts := Options{URL: "wss://lk.example.com", APIKey: "key", APISecret: "secret"}

	token, err := AccessToken(opts, "user-1", "srv1/general", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "key", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "srv1/general", claims.Video.Room)
	assert.True(t, claims.Video.RoomJoin)
}

func TestAccessTokenRequiresCredentials(t *testing.T) {
	_, err := AccessToken(Options{}, "user-1", "room", time.Hour)
	assert.Error(t, err)
}

func TestAccessTokenDefaultTTL(t *testing.T) {
	opts := Options{APIKey: "key", APISecret: "secret"}

	token, err := AccessToken(opts, "user-1", "room", 0)
	require.NoError(t, err)

	claims, err := ParseToken(opts, token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := AccessToken(Options{APIKey: "key", APISecret: "secret"}, "u", "r", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(Options{APISecret: "other"}, token)
	assert.Error(t, err)
}
