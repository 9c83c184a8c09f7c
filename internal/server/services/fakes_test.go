package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memUsers is an in-memory credential store. UpdatePassword compares the
// stored hash like the SQL version does.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	getErr error

	// runs after GetByID copies the row out, to simulate a concurrent writer
	afterGet func()
}

func newMemUsers(us ...*models.User) *memUsers {
	m := &memUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		cp := *u
		m.byID[u.ID] = &cp
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	if cp.ID == "" {
		cp.ID = "u-" + u.Email
	}
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	if m.getErr != nil {
		m.mu.Unlock()
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	cp := *u
	m.mu.Unlock()
	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, oldHash, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.PasswordHash != oldHash {
		return common.ErrVersionConflict
	}
	u.PasswordHash = newHash
	return nil
}

func (m *memUsers) hash(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].PasswordHash
}

type fakeRefreshRepo struct {
	mu        sync.Mutex
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error

	created       []string
	deleted       []string
	deletedByUser []string
	delUserErr    error
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	return f.findOut, f.findErr
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, token)
	return f.delErr
}

func (f *fakeRefreshRepo) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delUserErr != nil {
		return f.delUserErr
	}
	f.deletedByUser = append(f.deletedByUser, userID)
	return nil
}

type memNotes struct {
	byID      map[string]*models.Note
	createErr error
	updateErr error
	listErr   error
}

func newMemNotes(ns ...*models.Note) *memNotes {
	m := &memNotes{byID: map[string]*models.Note{}}
	for _, n := range ns {
		cp := *n
		m.byID[n.ID] = &cp
	}
	return m
}

func (m *memNotes) List(_ context.Context, userID string) ([]*models.Note, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*models.Note{}
	for _, n := range m.byID {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memNotes) Create(_ context.Context, n *models.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *n
	m.byID[n.ID] = &cp
	return nil
}

func (m *memNotes) GetByID(_ context.Context, id string) (*models.Note, error) {
	n, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotes) Update(_ context.Context, n *models.Note) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cur, ok := m.byID[n.ID]
	if !ok || cur.UserID != n.UserID {
		return common.ErrorNotFound
	}
	cp := *n
	m.byID[n.ID] = &cp
	return nil
}

type memTasks struct {
	byID      map[string]*models.Task
	createErr error
}

func newMemTasks(ts ...*models.Task) *memTasks {
	m := &memTasks{byID: map[string]*models.Task{}}
	for _, x := range ts {
		cp := *x
		m.byID[x.ID] = &cp
	}
	return m
}

func (m *memTasks) List(_ context.Context, userID string) ([]*models.Task, error) {
	out := []*models.Task{}
	for _, x := range m.byID {
		if x.UserID == userID {
			cp := *x
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTasks) Create(_ context.Context, x *models.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *x
	m.byID[x.ID] = &cp
	return nil
}

func (m *memTasks) GetByID(_ context.Context, id string) (*models.Task, error) {
	x, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *x
	return &cp, nil
}

func (m *memTasks) Update(_ context.Context, x *models.Task) error {
	if _, ok := m.byID[x.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *x
	m.byID[x.ID] = &cp
	return nil
}

func (m *memTasks) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

type memAttachments struct {
	byID      map[string]*models.Attachment
	createErr error
}

func newMemAttachments(as ...*models.Attachment) *memAttachments {
	m := &memAttachments{byID: map[string]*models.Attachment{}}
	for _, a := range as {
		cp := *a
		m.byID[a.ID] = &cp
	}
	return m
}

func (m *memAttachments) Create(_ context.Context, a *models.Attachment) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAttachments) GetByID(_ context.Context, id string) (*models.Attachment, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAttachments) ListByNote(_ context.Context, noteID string) ([]*models.Attachment, error) {
	out := []*models.Attachment{}
	for _, a := range m.byID {
		if a.NoteID == noteID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAttachments) MarkUploaded(_ context.Context, id string) error {
	a, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.Status = models.UploadStatusUploaded
	return nil
}

// fakeRepoManager hands out the same fakes whatever the DBTX is.
type fakeRepoManager struct {
	repomanager.RepositoryManager

	users       users.Repository
	refresh     refreshtokens.Repository
	notes       notes.Repository
	tasks       tasks.Repository
	attachments attachments.Repository
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Notes(dbx.DBTX) notes.Repository                 { return m.notes }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository                 { return m.tasks }
func (m *fakeRepoManager) Attachments(dbx.DBTX) attachments.Repository     { return m.attachments }
