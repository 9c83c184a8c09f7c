package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NoteInput carries client-supplied note fields. On update, empty strings
// and nil slices keep the stored value.
type NoteInput struct {
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Subject    string             `json:"subject"`
	Tags       []string           `json:"tags"`
	Objectives []models.Objective `json:"objectives"`
	IsFavorite *bool              `json:"isFavorite"`
}

type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *NoteService {
	return &NoteService{db: db, repomanager: m, logger: logger.With("module", "notes")}
}

func (s *NoteService) List(ctx context.Context, userID string) ([]*models.Note, error) {
	list, err := s.repomanager.Notes(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return list, nil
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: please add a title", common.ErrorValidation)
	}
	n := &models.Note{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      in.Title,
		Content:    in.Content,
		Subject:    in.Subject,
		Tags:       in.Tags,
		Objectives: withObjectiveIDs(in.Objectives),
	}
	if n.Subject == "" {
		n.Subject = common.DefaultNoteSubject
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if in.IsFavorite != nil {
		n.IsFavorite = *in.IsFavorite
	}
	if err := s.repomanager.Notes(s.db).Create(ctx, n); err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

// Update patches a note of userID. Notes of other users are reported as
// missing.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, in NoteInput) (*models.Note, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		n.Title = in.Title
	}
	if in.Content != "" {
		n.Content = in.Content
	}
	if in.Subject != "" {
		n.Subject = in.Subject
	}
	if in.Tags != nil {
		n.Tags = in.Tags
	}
	if in.IsFavorite != nil {
		n.IsFavorite = *in.IsFavorite
	}
	if in.Objectives != nil {
		n.Objectives = withObjectiveIDs(in.Objectives)
	}
	if err := s.save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

var sentenceSplitRe = regexp.MustCompile(`[.!?]`)

// GenerateQuiz appends study objectives derived from the shape of the note
// content. Objectives whose text is already present are not added twice.
func (s *NoteService) GenerateQuiz(ctx context.Context, userID, noteID string) (*models.Note, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(n.Objectives))
	for _, o := range n.Objectives {
		existing[o.Text] = struct{}{}
	}
	for _, text := range quizObjectives(n.Title, n.Content) {
		if _, ok := existing[text]; ok {
			continue
		}
		n.Objectives = append(n.Objectives, models.Objective{ID: uuid.NewString(), Text: text})
	}
	if err := s.save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func quizObjectives(title, content string) []string {
	plain := []rune(htmlTagRe.ReplaceAllString(content, ""))
	if len(plain) > 500 {
		plain = plain[:500]
	}
	sentences := 0
	for _, part := range sentenceSplitRe.Split(string(plain), -1) {
		if len([]rune(strings.TrimSpace(part))) > 10 {
			sentences++
		}
	}

	var out []string
	if sentences > 0 {
		out = append(out, fmt.Sprintf("Define: What is the primary focus of the note titled \"%s\"?", title))
	}
	if sentences > 1 {
		out = append(out, "Explain: Summarize the main idea of the second point in the note.")
	}
	if sentences > 3 {
		out = append(out, "List: List three key terms mentioned in the content.")
	}
	return out
}

func (s *NoteService) owned(ctx context.Context, userID, noteID string) (*models.Note, error) {
	n, err := s.repomanager.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading note: %w", err)
	}
	if n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

func (s *NoteService) save(ctx context.Context, n *models.Note) error {
	if err := s.repomanager.Notes(s.db).Update(ctx, n); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating note: %w", err)
	}
	return nil
}

func withObjectiveIDs(in []models.Objective) []models.Objective {
	out := make([]models.Objective, len(in))
	for i, o := range in {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		out[i] = o
	}
	return out
}
