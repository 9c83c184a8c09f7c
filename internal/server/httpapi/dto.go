package httpapi

import (
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type authResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	StudyStreak  int    `json:"studyStreak"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type noteResponse struct {
	ID         string             `json:"_id"`
	User       string             `json:"user"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Subject    string             `json:"subject"`
	Tags       []string           `json:"tags"`
	Objectives []models.Objective `json:"objectives"`
	IsFavorite bool               `json:"isFavorite"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func toNote(n *models.Note) noteResponse {
	out := noteResponse{
		ID:         n.ID,
		User:       n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Subject:    n.Subject,
		Tags:       n.Tags,
		Objectives: n.Objectives,
		IsFavorite: n.IsFavorite,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Objectives == nil {
		out.Objectives = []models.Objective{}
	}
	return out
}

type taskResponse struct {
	ID          string     `json:"_id"`
	User        string     `json:"user"`
	Text        string     `json:"text"`
	IsCompleted bool       `json:"isCompleted"`
	Urgency     string     `json:"urgency"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTask(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		User:        t.UserID,
		Text:        t.Text,
		IsCompleted: t.IsCompleted,
		Urgency:     string(t.Urgency),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type attachmentResponse struct {
	ID          string    `json:"_id"`
	Note        string    `json:"note"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAttachment(a *models.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:          a.ID,
		Note:        a.NoteID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
