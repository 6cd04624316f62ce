package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngandinhtk/tripwise/internal/pkg/config"
	"github.com/ngandinhtk/tripwise/internal/pkg/middleware"
)

var _ middleware.TokenValidator = (*JWTService)(nil)

func testJWTService() *JWTService {
	return NewJWTService(config.AuthConfig{
		JWTSecret:       "test-secret-key",
		TokenExpiration: time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New().String()

	token, expiresAt, err := svc.GenerateToken(userID, "amelia@example.com", "amelia")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "amelia@example.com", claims.Email)
	assert.Equal(t, "amelia", claims.Username)

	subject, email, username, err := svc.ValidateBearer(token)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
	assert.Equal(t, "amelia@example.com", email)
	assert.Equal(t, "amelia", username)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := testJWTService()

	t.Run("garbage token", func(t *testing.T) {
		claims, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.AuthConfig{
			JWTSecret:       "different-secret",
			TokenExpiration: time.Hour,
		})
		token, _, err := other.GenerateToken(uuid.New().String(), "amelia@example.com", "amelia")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.AuthConfig{
			JWTSecret:       "test-secret-key",
			TokenExpiration: -time.Minute,
		})
		token, _, err := expired.GenerateToken(uuid.New().String(), "amelia@example.com", "amelia")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestPasswordHashing(t *testing.T) {
	svc := testJWTService()

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, svc.CheckPassword(hash, "wrong password"))
}
