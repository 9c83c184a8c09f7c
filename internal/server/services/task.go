package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskPatch lists the task fields a client wants to change. Nil means keep.
type TaskPatch struct {
	Text        *string
	IsCompleted *bool
	Urgency     *models.Urgency
	DueDate     *time.Time
	ClearDue    bool
}

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{db: db, repomanager: m, logger: logger.With("module", "tasks")}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

// Create adds a task. Urgency defaults to medium.
func (s *TaskService) Create(ctx context.Context, userID, text string, urgency models.Urgency, due *time.Time) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: please add a text field", common.ErrorValidation)
	}
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	if !urgency.Valid() {
		return nil, fmt.Errorf("%w: unknown urgency %q", common.ErrorValidation, urgency)
	}
	t := &models.Task{
		ID:      uuid.NewString(),
		UserID:  userID,
		Text:    text,
		Urgency: urgency,
		DueDate: due,
	}
	if err := s.repomanager.Tasks(s.db).Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return t, nil
}

// Update applies p to a task of userID. A task of another user yields
// common.ErrorUnauthorized.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, p TaskPatch) (*models.Task, error) {
	t, err := s.owned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if p.Text != nil {
		if strings.TrimSpace(*p.Text) == "" {
			return nil, fmt.Errorf("%w: text must not be empty", common.ErrorValidation)
		}
		t.Text = *p.Text
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Urgency != nil {
		if !p.Urgency.Valid() {
			return nil, fmt.Errorf("%w: unknown urgency %q", common.ErrorValidation, *p.Urgency)
		}
		t.Urgency = *p.Urgency
	}
	switch {
	case p.ClearDue:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = p.DueDate
	}

	if err := s.repomanager.Tasks(s.db).Update(ctx, t); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return t, nil
}

// Delete removes a task of userID and returns its id.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (string, error) {
	if _, err := s.owned(ctx, userID, taskID); err != nil {
		return "", err
	}
	if err := s.repomanager.Tasks(s.db).Delete(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error deleting task: %w", err)
	}
	return taskID, nil
}

func (s *TaskService) owned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	t, err := s.repomanager.Tasks(s.db).GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if t.UserID != userID {
		return nil, common.ErrorUnauthorized
	}
	return t, nil
}
