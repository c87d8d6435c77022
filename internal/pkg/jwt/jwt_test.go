package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("user-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not.a.jwt")
	assert.Error(t, err)
}

func TestSessionAndVerificationTokensAreNotInterchangeable(t *testing.T) {
	// The two token kinds carry the user id under different claim keys, so a
	// verification token must not pass as a session token and vice versa.
	vtoken, err := SignVerification("user-1", time.Hour)
	require.NoError(t, err)

	_, err = Parse(vtoken)
	assert.Error(t, err)

	stoken, err := Sign("user-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseVerification(stoken)
	assert.Error(t, err)
}

func TestVerificationRoundTrip(t *testing.T) {
	token, err := SignVerification("user-9", 5*time.Minute)
	require.NoError(t, err)

	claims, err := ParseVerification(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
}

func TestSetSecretInvalidatesOldTokens(t *testing.T) {
	t.Cleanup(func() { secret = []byte(defaultSecret) })

	token, err := Sign("user-1", time.Hour)
	require.NoError(t, err)

	SetSecret("another-secret")
	_, err = Parse(token)
	assert.Error(t, err)
}
