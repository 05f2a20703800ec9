package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballotbox/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: uuid.New(), Email: "v1@example.com", Role: model.RoleVoter}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleVoter, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := testUser()

	tokenID, token, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RemainingTTL(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	ttl := svc.RemainingTTL(claims)
	assert.Greater(t, ttl, AccessTokenExpiry-time.Minute)
	assert.LessOrEqual(t, ttl, AccessTokenExpiry)

	assert.Equal(t, time.Duration(0), svc.RemainingTTL(&Claims{}))
}
