package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "readtrack-test"
	userID := "user-123-uuid"

	setup := func() *TokenService {
		return NewTokenService(secret, issuer, 1*time.Hour)
	}

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service := setup()

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		extractedID, err := service.ValidateToken(tokenString)
		assert.NoError(t, err)
		assert.Equal(t, userID, extractedID)
	})

	t.Run("Fail: Should reject expired token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, -1*time.Second)

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)

		extractedID, err := service.ValidateToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "token is expired")
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token with wrong secret", func(t *testing.T) {
		tokenString, _ := setup().GenerateToken(userID)

		attacker := NewTokenService("wrong-key", issuer, 1*time.Hour)

		extractedID, err := attacker.ValidateToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token")
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token with wrong issuer", func(t *testing.T) {
		serviceA := NewTokenService(secret, "correct-issuer", 1*time.Hour)
		tokenString, _ := serviceA.GenerateToken(userID)

		serviceB := NewTokenService(secret, "wrong-issuer", 1*time.Hour)

		extractedID, err := serviceB.ValidateToken(tokenString)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid issuer")
		assert.Empty(t, extractedID)
	})

	t.Run("Fail: Should reject token without subject", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": issuer,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = setup().ValidateToken(tokenString)
		assert.EqualError(t, err, "invalid token subject")
	})

	t.Run("Fail: Should reject token without expiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID,
			"iss": issuer,
		})
		tokenString, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = setup().ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.New(jwt.SigningMethodNone)
		claims := token.Claims.(jwt.MapClaims)
		claims["sub"] = userID
		claims["iss"] = issuer

		fakeTokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		_, err := setup().ValidateToken(fakeTokenString)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		extractedID, err := setup().ValidateToken("this-is-not-a-jwt")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token")
		assert.Empty(t, extractedID)
	})
}
