// Package httpapi exposes the Smart Notes services as a JSON REST API
// routed with gorilla/mux.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (string, error)
}

type ResetService interface {
	RequestReset(ctx context.Context, email string) (services.ResetRequestResult, error)
	CompleteReset(ctx context.Context, userID, token, newPassword string) error
}

type NoteService interface {
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Create(ctx context.Context, userID string, in services.NoteInput) (*models.Note, error)
	Update(ctx context.Context, userID, noteID string, in services.NoteInput) (*models.Note, error)
	GenerateQuiz(ctx context.Context, userID, noteID string) (*models.Note, error)
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, userID, text string, urgency models.Urgency, due *time.Time) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, p services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) (string, error)
}

type AttachmentService interface {
	RequestUpload(ctx context.Context, userID, noteID, fileName, contentType string) (*services.UploadTicket, error)
	MarkUploaded(ctx context.Context, userID, id string) error
	DownloadURL(ctx context.Context, userID, id string) (string, error)
	List(ctx context.Context, userID, noteID string) ([]*models.Attachment, error)
}

// Metrics is satisfied by *obs.Metrics.
type Metrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	InFlight(delta float64)
	Handler() http.Handler
}

// Pinger reports database reachability for /readyz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	FrontendOrigin    string
	MaxBodyBytes      int64
	AuthRatePerMinute int
	AuthRateBurst     int
}

type Deps struct {
	Users       UserService
	Resets      ResetService
	Notes       NoteService
	Tasks       TaskService
	Attachments AttachmentService
	DB          Pinger
	Metrics     Metrics
	Logger      logging.Logger
}

type handler struct {
	Deps
	logger logging.Logger
}

// NewRouter wires every route and returns the root handler.
func NewRouter(d Deps, opts Options) http.Handler {
	h := &handler{Deps: d, logger: d.Logger.With("module", "httpapi")}
	limiter := newIPLimiter(opts.AuthRatePerMinute, opts.AuthRateBurst)

	r := mux.NewRouter()
	r.Use(h.instrument, h.accessLog)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/register", h.register).Methods(http.MethodPost)
	a.Handle("/login", limiter.wrap(http.HandlerFunc(h.login))).Methods(http.MethodPost)
	a.HandleFunc("/refresh", h.refresh).Methods(http.MethodPost)
	a.Handle("/forgot-password", limiter.wrap(http.HandlerFunc(h.forgotPassword))).Methods(http.MethodPost)
	a.HandleFunc("/reset-password/{id}/{token}", h.resetPassword).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.requireAuth)

	api.HandleFunc("/notes", h.listNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", h.createNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", h.updateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/generate-quiz/{noteId}", h.generateQuiz).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/attachments", h.listAttachments).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/attachments", h.requestUpload).Methods(http.MethodPost)
	api.HandleFunc("/attachments/{id}/uploaded", h.markUploaded).Methods(http.MethodPost)
	api.HandleFunc("/attachments/{id}/download", h.downloadAttachment).Methods(http.MethodGet)

	api.HandleFunc("/tasks", h.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", h.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", h.updateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", h.deleteTask).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found - "+r.URL.Path)
	})

	return cors(opts.FrontendOrigin, maxBodyBytes(opts.MaxBodyBytes, r))
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.logger.Warn(r.Context(), "readiness check failed", "error", err)
			writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
