// Package server wires configuration, storage, services and transports into
// a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/obs"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	gs "github.com/dmitrijs2005/smartnotes/internal/server/grpc"
	"github.com/dmitrijs2005/smartnotes/internal/server/httpapi"
	"github.com/dmitrijs2005/smartnotes/internal/server/mailer"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
)

var openDB = sql.Open

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
	health  *gs.HealthServer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	ctx := context.Background()

	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	metrics := obs.NewMetrics()
	sender := newSender(c, logger)

	handler := httpapi.NewRouter(httpapi.Deps{
		Users:       services.NewUserService(db, rm, c, logger),
		Resets:      services.NewPasswordResetService(db, rm, sender, c, logger, metrics),
		Notes:       services.NewNoteService(db, rm, logger),
		Tasks:       services.NewTaskService(db, rm, logger),
		Attachments: services.NewAttachmentService(db, rm, c, logger),
		DB:          db,
		Metrics:     metrics,
		Logger:      logger,
	}, httpapi.Options{
		FrontendOrigin:    c.FrontendOrigin,
		MaxBodyBytes:      c.MaxBodyBytes,
		AuthRatePerMinute: c.AuthRatePerMinute,
		AuthRateBurst:     c.AuthRateBurst,
	})

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		handler: handler,
		health:  gs.NewHealthServer(c.GRPCHealthAddr, logger),
	}, nil
}

// OpenDatabase connects to PostgreSQL and applies pending migrations.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, *repomanager.PostgresRepositoryManager, error) {
	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db connect error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migrations error: %w", err)
	}
	return db, rm, nil
}

// newSender picks SMTP when a relay is configured and falls back to logging
// the mail otherwise.
func newSender(c *config.Config, logger logging.Logger) mailer.Sender {
	if c.SMTPHost == "" {
		logger.Warn(context.Background(), "SMTP host not set, reset mails are logged instead of sent")
		return mailer.NewLogSender(logger)
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Username:   c.SMTPUser,
		Password:   c.SMTPPassword,
		FromName:   c.SMTPFromName,
		FromEmail:  c.SMTPFromEmail,
		SkipVerify: c.SMTPSkipVerify,
	})
}

// Run serves HTTP and gRPC health until ctx is cancelled or SIGINT/SIGTERM
// arrives, then drains both servers.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	lis, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	fail := func(err error) {
		errOnce.Do(func() { runErr = err })
		cancel()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server failed", "error", err)
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.health.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc health server failed", "error", err)
			fail(err)
		}
	}()

	app.health.SetServing(true)
	<-ctx.Done()
	app.health.SetServing(false)

	app.logger.Info(context.Background(), "Stopping HTTP server...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown failed", "error", err)
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close failed", "error", err)
		}
	}
	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
