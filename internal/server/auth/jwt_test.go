package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok, err := GenerateToken("user-123", secret, time.Hour)
	require.NoError(t, err)

	uid, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestGetUserIDFromToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	sign := func(c jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	hour := jwt.NewNumericDate(time.Now().Add(time.Hour))

	expired, err := GenerateToken("u1", secret, -time.Second)
	require.NoError(t, err)
	otherKey, err := GenerateToken("u1", []byte("other"), time.Hour)
	require.NoError(t, err)
	reset, err := IssueResetToken("a@x.com", "u1", "", secret, time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, common.ErrTokenExpired},
		{"wrong secret", otherKey, common.ErrInvalidToken},
		{"garbage", "not.a.jwt", common.ErrInvalidToken},
		{"reset token", reset, common.ErrInvalidToken},
		{"no audience", sign(jwt.RegisteredClaims{Subject: "u1", ExpiresAt: hour}), common.ErrInvalidToken},
		{"no expiry", sign(jwt.RegisteredClaims{Subject: "u1", Audience: jwt.ClaimStrings{AccessTokenAudience}}), common.ErrInvalidToken},
		{"no subject", sign(jwt.RegisteredClaims{Audience: jwt.ClaimStrings{AccessTokenAudience}, ExpiresAt: hour}), common.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetUserIDFromToken(tt.token, secret)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
