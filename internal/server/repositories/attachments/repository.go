// Package attachments keeps metadata of files uploaded to object storage
// for a note.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	ListByNote(ctx context.Context, noteID string) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id string) error
}
