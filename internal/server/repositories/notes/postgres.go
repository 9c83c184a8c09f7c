package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const noteColumns = `id, user_id, title, content, subject, tags, objectives, is_favorite, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n          models.Note
		tags       []byte
		objectives []byte
	)
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Subject, &tags, &objectives,
		&n.IsFavorite, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &n.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(objectives, &n.Objectives); err != nil {
		return nil, fmt.Errorf("decode objectives: %w", err)
	}
	return &n, nil
}

func encodeJSONB(note *models.Note) (string, string, error) {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	objectives := note.Objectives
	if objectives == nil {
		objectives = []models.Objective{}
	}
	t, err := json.Marshal(tags)
	if err != nil {
		return "", "", err
	}
	o, err := json.Marshal(objectives)
	if err != nil {
		return "", "", err
	}
	return string(t), string(o), nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC
		`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts the note with its preassigned ID and fills in the timestamps.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) error {
	tags, objectives, err := encodeJSONB(note)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, user_id, title, content, subject, tags, objectives, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, note.Subject, tags, objectives, note.IsFavorite,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Update rewrites the note if it belongs to note.UserID. A missing or foreign
// note yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	tags, objectives, err := encodeJSONB(note)
	if err != nil {
		return err
	}

	query := `
		UPDATE notes SET
			title = $1,
			content = $2,
			subject = $3,
			tags = $4,
			objectives = $5,
			is_favorite = $6,
			updated_at = now()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		note.Title, note.Content, note.Subject, tags, objectives, note.IsFavorite, note.ID, note.UserID,
	).Scan(&note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
