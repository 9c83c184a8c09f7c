package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/obs"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
)

type fakeUsers struct {
	loginErr error
}

func (f *fakeUsers) Register(_ context.Context, name, email, _ string) (*models.User, *services.TokenPair, error) {
	if email == "taken@example.com" {
		return nil, nil, common.ErrorAlreadyExists
	}
	return &models.User{ID: "u1", Name: name, Email: email}, &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
}

func (f *fakeUsers) Login(context.Context, string, string) (*models.User, *services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", StudyStreak: 3}, &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, tok string) (*services.TokenPair, error) {
	if tok != "ref" {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil
}

func (f *fakeUsers) Authenticate(tok string) (string, error) {
	if tok == "good" {
		return "u1", nil
	}
	return "", common.ErrInvalidToken
}

type resetCall struct{ userID, token, password string }

type fakeResets struct {
	requestErr  error
	completeErr error
	requested   []string
	completed   []resetCall
}

func (f *fakeResets) RequestReset(_ context.Context, email string) (services.ResetRequestResult, error) {
	f.requested = append(f.requested, email)
	if f.requestErr != nil {
		return services.ResetRequestResult{}, f.requestErr
	}
	return services.ResetRequestResult{Success: true, Message: services.ResetRequestMessage}, nil
}

func (f *fakeResets) CompleteReset(_ context.Context, userID, token, password string) error {
	f.completed = append(f.completed, resetCall{userID, token, password})
	return f.completeErr
}

type fakeNotes struct {
	lastInput services.NoteInput
}

func (f *fakeNotes) List(_ context.Context, userID string) ([]*models.Note, error) {
	return []*models.Note{{ID: "n1", UserID: userID, Title: "t"}}, nil
}

func (f *fakeNotes) Create(_ context.Context, userID string, in services.NoteInput) (*models.Note, error) {
	f.lastInput = in
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: please add a title", common.ErrorValidation)
	}
	return &models.Note{ID: "n2", UserID: userID, Title: in.Title, Subject: "General"}, nil
}

func (f *fakeNotes) Update(_ context.Context, userID, noteID string, in services.NoteInput) (*models.Note, error) {
	f.lastInput = in
	if noteID != "n1" {
		return nil, common.ErrorNotFound
	}
	return &models.Note{ID: noteID, UserID: userID, Title: in.Title}, nil
}

func (f *fakeNotes) GenerateQuiz(_ context.Context, userID, noteID string) (*models.Note, error) {
	return &models.Note{ID: noteID, UserID: userID, Objectives: []models.Objective{{ID: "o", Text: "Define: x"}}}, nil
}

type fakeTasks struct {
	lastPatch services.TaskPatch
	lastDue   *time.Time
}

func (f *fakeTasks) List(_ context.Context, userID string) ([]*models.Task, error) {
	return nil, nil
}

func (f *fakeTasks) Create(_ context.Context, userID, text string, urgency models.Urgency, due *time.Time) (*models.Task, error) {
	f.lastDue = due
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	return &models.Task{ID: "t1", UserID: userID, Text: text, Urgency: urgency, DueDate: due}, nil
}

func (f *fakeTasks) Update(_ context.Context, userID, taskID string, p services.TaskPatch) (*models.Task, error) {
	f.lastPatch = p
	if taskID == "foreign" {
		return nil, common.ErrorUnauthorized
	}
	return &models.Task{ID: taskID, UserID: userID}, nil
}

func (f *fakeTasks) Delete(_ context.Context, userID, taskID string) (string, error) {
	return taskID, nil
}

type fakeAttachments struct{}

func (fakeAttachments) RequestUpload(_ context.Context, userID, noteID, fileName, contentType string) (*services.UploadTicket, error) {
	return &services.UploadTicket{
		Attachment: &models.Attachment{ID: "a1", NoteID: noteID, UserID: userID, FileName: fileName, Status: models.UploadStatusPending},
		URL:        "https://s3.local/put",
	}, nil
}

func (fakeAttachments) MarkUploaded(context.Context, string, string) error { return nil }

func (fakeAttachments) DownloadURL(_ context.Context, _, id string) (string, error) {
	if id != "a1" {
		return "", common.ErrorNotFound
	}
	return "https://s3.local/get", nil
}

func (fakeAttachments) List(context.Context, string, string) ([]*models.Attachment, error) {
	return []*models.Attachment{}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	users   *fakeUsers
	resets  *fakeResets
	notes   *fakeNotes
	tasks   *fakeTasks
	pinger  *fakePinger
	metrics *obs.Metrics
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ts := &testServer{
		users:   &fakeUsers{},
		resets:  &fakeResets{},
		notes:   &fakeNotes{},
		tasks:   &fakeTasks{},
		pinger:  &fakePinger{},
		metrics: obs.NewMetrics(),
		logs:    &bytes.Buffer{},
	}
	ts.handler = NewRouter(Deps{
		Users:       ts.users,
		Resets:      ts.resets,
		Notes:       ts.notes,
		Tasks:       ts.tasks,
		Attachments: fakeAttachments{},
		DB:          ts.pinger,
		Metrics:     ts.metrics,
		Logger:      logging.NewJSONLogger(ts.logs, "debug"),
	}, opts)
	return ts
}

func (ts *testServer) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}
