package models

import "time"

const (
	UploadStatusPending  = "pending"
	UploadStatusUploaded = "uploaded"
)

// Attachment is a study resource stored in object storage and linked to a
// note. The bytes live under StorageKey; only metadata is kept in the database.
type Attachment struct {
	ID          string
	NoteID      string
	UserID      string
	FileName    string
	ContentType string
	StorageKey  string
	Status      string
	CreatedAt   time.Time
}
