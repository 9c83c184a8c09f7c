package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenAudience marks a token as usable for password resets only.
const ResetTokenAudience = "password-reset"

var (
	ErrResetTokenMalformed        = errors.New("reset token malformed")
	ErrResetTokenSignatureInvalid = errors.New("reset token signature invalid")
	ErrResetTokenExpired          = errors.New("reset token expired")
)

// ResetClaims is the payload of a password reset token.
type ResetClaims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// ResetSubject is what a verified reset token vouches for.
type ResetSubject struct {
	Email  string
	UserID string
}

// resetSigningKey binds a token to the password hash stored at issue time:
// once the hash changes, every token signed with the old key stops verifying.
func resetSigningKey(secret []byte, passwordHash string) []byte {
	key := make([]byte, 0, len(secret)+len(passwordHash))
	key = append(key, secret...)
	return append(key, passwordHash...)
}

// IssueResetToken signs {email, id, iat, exp} with secret‖passwordHash.
// passwordHash must be the value currently stored for userID.
func IssueResetToken(email, userID, passwordHash string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(userID) == "" {
		return "", errors.New("email and user id are required")
	}
	if len(secret) == 0 {
		return "", errors.New("server secret is not configured")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{ResetTokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(resetSigningKey(secret, passwordHash))
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyResetToken checks a reset token against the password hash stored
// for userID right now. The token is valid while now <= exp.
//
// Errors: ErrResetTokenMalformed when the token does not parse into the
// expected shape, ErrResetTokenSignatureInvalid when the signature does not
// match (forged, or the password changed since issuance) or the token was
// issued for another account, ErrResetTokenExpired once exp has passed.
func VerifyResetToken(tokenString, userID, passwordHash string, secret []byte, now time.Time) (*ResetSubject, error) {
	claims := &ResetClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return resetSigningKey(secret, passwordHash), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrResetTokenSignatureInvalid
		default:
			return nil, ErrResetTokenMalformed
		}
	}

	if claims.UserID == "" || claims.Email == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil ||
		!slices.Contains(claims.Audience, ResetTokenAudience) {
		return nil, ErrResetTokenMalformed
	}
	if claims.UserID != userID {
		return nil, ErrResetTokenSignatureInvalid
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, ErrResetTokenExpired
	}

	return &ResetSubject{Email: claims.Email, UserID: claims.UserID}, nil
}
