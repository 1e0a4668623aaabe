package auth

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Verify("")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenService("other", time.Hour).Verify(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenService("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Verify(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("non uuid subject", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "42",
			Issuer:  issuer,
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = svc.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
