package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var opts = Options{SecretKey: "test-secret", Issuer: "lingodeck", Audience: "lingodeck-api"}

func TestCreateAndVerify(t *testing.T) {
	token, err := CreateToken(opts, "auth0|123", "mina", time.Hour)
	require.NoError(t, err)

	sub, err := VerifyToken(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|123", sub)
}

func TestVerify_Rejects(t *testing.T) {
	expired, err := CreateToken(opts, "auth0|123", "", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken(opts, expired)
	assert.Error(t, err)

	token, err := CreateToken(opts, "auth0|123", "", time.Hour)
	require.NoError(t, err)

	other := opts
	other.SecretKey = "other"
	_, err = VerifyToken(other, token)
	assert.Error(t, err)

	other = opts
	other.Audience = "someone-else"
	_, err = VerifyToken(other, token)
	assert.Error(t, err)
}

func TestCreateToken_NoSecret(t *testing.T) {
	_, err := CreateToken(Options{}, "auth0|123", "", time.Hour)
	assert.Error(t, err)
}
