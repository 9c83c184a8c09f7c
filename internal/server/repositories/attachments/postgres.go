package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements attachment storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records a new attachment and fills in CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, note_id, user_id, file_name, content_type, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.NoteID, a.UserID, a.FileName, a.ContentType, a.StorageKey, a.Status,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the attachment row used to authorize and build presigned URLs.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := ` SELECT id, note_id, user_id, file_name, content_type, storage_key, status, created_at from attachments
		WHERE id=$1
		`

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.NoteID, &a.UserID, &a.FileName, &a.ContentType, &a.StorageKey, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select attachment: %w", err)
	}
	return a, nil
}

// ListByNote returns the attachments of a note in upload order.
func (r *PostgresRepository) ListByNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	query := ` SELECT id, note_id, user_id, file_name, content_type, storage_key, status, created_at from attachments
		WHERE note_id=$1
		ORDER BY created_at
		`
	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	result := []*models.Attachment{}
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.NoteID, &a.UserID, &a.FileName, &a.ContentType, &a.StorageKey, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkUploaded flips the attachment to the uploaded state. Exactly one row
// must be affected.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `update attachments set status='uploaded' where id=$1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
