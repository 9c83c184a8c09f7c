// Package tasks stores the to-do list entries of each user.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type Repository interface {
	// List returns the user's tasks, newest first.
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}
