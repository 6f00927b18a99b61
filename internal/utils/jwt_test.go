package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT(7, "01SESSION", time.Now(), time.Hour, "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.PrincipalID)
	assert.Equal(t, "01SESSION", claims.ID)
}

func TestJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT(7, "s", time.Now(), time.Hour, "secret")
	require.NoError(t, err)
	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(7, "s", time.Now().Add(-2*time.Hour), time.Hour, "secret")
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}
