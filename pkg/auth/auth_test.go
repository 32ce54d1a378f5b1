package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	user := &models.User{ID: "u-1", Email: "m@example.com", Role: models.RoleMechanic}

	tok, err := tokens.Issue(user)
	require.NoError(t, err)

	actor, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: "u-1", Role: models.RoleMechanic}, actor)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }

	tok, err := tokens.Issue(&models.User{ID: "u-1", Role: models.RoleDriver})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestTokens_WrongSecret(t *testing.T) {
	tok, err := NewTokens("one", time.Hour).Issue(&models.User{ID: "u-1", Role: models.RoleDriver})
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestTokens_RejectsUnknownRole(t *testing.T) {
	claims := Claims{
		Sub:  "u-1",
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestTokens_Garbage(t *testing.T) {
	_, err := NewTokens("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
}
