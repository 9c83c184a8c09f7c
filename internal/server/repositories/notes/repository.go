// Package notes stores study notes. Tags and objectives are kept as JSONB
// columns next to the note row.
package notes

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type Repository interface {
	// List returns the user's notes, most recently updated first.
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// Update overwrites the mutable fields of a note owned by note.UserID.
	Update(ctx context.Context, note *models.Note) error
}
