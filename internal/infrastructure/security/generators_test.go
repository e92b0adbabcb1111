package security

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateULIDUnique(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(16)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, 16)

	other, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	_, err = hex.DecodeString(key)
	require.NoError(t, err)
}

func TestOpsTokenRoundTrip(t *testing.T) {
	secret, err := GenerateSecureKey(64)
	require.NoError(t, err)

	token, err := GenerateOpsToken(secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.True(t, IsOpsToken(claims))

	jti, _ := claims["jti"].(string)
	assert.NotEmpty(t, jti)

	// A second login gets its own token identity.
	again, err := GenerateOpsToken(secret, time.Hour)
	require.NoError(t, err)
	moreClaims, err := ValidateJWT(again, secret)
	require.NoError(t, err)
	assert.NotEqual(t, jti, moreClaims["jti"])

	_, err = ValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}
