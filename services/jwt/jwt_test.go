package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenPairRoundTrip(t *testing.T) {
	accessToken, refreshToken, err := GenerateTokenPair("user@example.com", testSecret, false, 42, "user")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := ValidateAndGetClaims(accessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "user", claims["role"])
	assert.EqualValues(t, 42, claims["id"].(float64))

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(AccessTokenValidity), exp, time.Minute)

	refreshClaims, err := ValidateAndGetClaims(refreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims["type"])
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	accessToken, _, err := GenerateTokenPair("user@example.com", testSecret, false, 42, "user")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(accessToken, "another-secret")
	assert.Error(t, err)
}

func TestValidateRejectsNonHMACSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(unsigned, testSecret)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  42,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	expired, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(expired, testSecret)
	assert.Error(t, err)
}

func TestGeneratePasswordResetToken(t *testing.T) {
	resetToken, err := GeneratePasswordResetToken(42, testSecret)
	require.NoError(t, err)

	claims, err := ValidateAndGetClaims(resetToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "password_reset", claims["type"])
	assert.EqualValues(t, 42, claims["id"].(float64))

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), exp, time.Minute)
}
