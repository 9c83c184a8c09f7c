// Package auth issues and validates the HS256 tokens used by the server:
// short-lived API access tokens and single-purpose password reset tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenAudience scopes a token to the REST API. Reset tokens carry
// ResetTokenAudience instead, so neither kind is accepted in place of the other.
const AccessTokenAudience = "api"

// GenerateToken returns an access token whose subject is userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Audience:  jwt.ClaimStrings{AccessTokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GetUserIDFromToken validates an access token and returns its subject.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// validation yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(AccessTokenAudience),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil, claims.Subject == "":
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
