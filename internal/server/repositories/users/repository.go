// Package users declares the credential store: user identity plus the
// current password hash.
package users

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in ID and timestamps. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail matches the email exactly as stored.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdatePassword replaces the hash only while it still equals oldHash.
	// When it no longer does, common.ErrVersionConflict is returned.
	UpdatePassword(ctx context.Context, id, oldHash, newHash string) error
}
