// Package refreshtokens persists the opaque refresh tokens behind user
// sessions. A token is single use: refreshing deletes it and issues a new one.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	// Find returns common.ErrorNotFound when token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete returns common.ErrorNotFound when token no longer exists.
	Delete(ctx context.Context, token string) error
	// DeleteByUser signs out every session of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
