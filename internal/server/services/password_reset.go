package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/mailer"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// ResetRequestMessage is returned for every accepted reset request, whether
// or not the address belongs to an account.
const ResetRequestMessage = "If a user with that email exists, a password reset link has been sent."

// ResetRequestResult is the caller-visible answer to RequestReset.
type ResetRequestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResetMetrics receives reset flow outcomes. *obs.Metrics implements it.
type ResetMetrics interface {
	ResetRequested(outcome string)
	ResetCompleted(outcome string)
	MailSent(err error)
}

type nopResetMetrics struct{}

func (nopResetMetrics) ResetRequested(string) {}
func (nopResetMetrics) ResetCompleted(string) {}
func (nopResetMetrics) MailSent(error)        {}

// PasswordResetService runs the forgot-password flow. Reset tokens are never
// stored: each one is signed with the server secret concatenated with the
// account's current password hash, so changing the password revokes every
// link issued before.
type PasswordResetService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	sender         mailer.Sender
	logger         logging.Logger
	metrics        ResetMetrics
	secret         []byte
	ttl            time.Duration
	frontendOrigin string
	bcryptCost     int
	now            func() time.Time
}

func NewPasswordResetService(db *sql.DB, m repomanager.RepositoryManager, sender mailer.Sender,
	cfg *config.Config, logger logging.Logger, metrics ResetMetrics) *PasswordResetService {
	if metrics == nil {
		metrics = nopResetMetrics{}
	}
	return &PasswordResetService{
		db:             db,
		repomanager:    m,
		sender:         sender,
		logger:         logger.With("module", "password_reset"),
		metrics:        metrics,
		secret:         []byte(cfg.SecretKey),
		ttl:            cfg.ResetTokenValidityDuration,
		frontendOrigin: strings.TrimRight(cfg.FrontendOrigin, "/"),
		bcryptCost:     bcrypt.DefaultCost,
		now:            time.Now,
	}
}

func genericResetResult() ResetRequestResult {
	return ResetRequestResult{Success: true, Message: ResetRequestMessage}
}

// RequestReset mails a reset link to the account registered under email.
// Unknown addresses get the same result as known ones. The only failure
// that names the problem is ErrEmailDeliveryFailed.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (ResetRequestResult, error) {
	if email == "" {
		s.metrics.ResetRequested("unknown_account")
		return genericResetResult(), nil
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "reset requested for unknown email")
			s.metrics.ResetRequested("unknown_account")
			return genericResetResult(), nil
		}
		s.logger.Error(ctx, "reset lookup failed", "error", err)
		s.metrics.ResetRequested("error")
		return ResetRequestResult{}, common.ErrorInternal
	}

	token, err := auth.IssueResetToken(user.Email, user.ID, user.PasswordHash, s.secret, s.ttl, s.now())
	if err != nil {
		s.logger.Error(ctx, "reset token issue failed", "user_id", user.ID, "error", err)
		s.metrics.ResetRequested("error")
		return ResetRequestResult{}, common.ErrorInternal
	}

	body, err := mailer.RenderResetEmail(mailer.ResetEmailData{
		Name:     user.Name,
		ResetURL: s.resetURL(user.ID, token),
		ValidFor: s.ttl,
		Year:     s.now().Year(),
	})
	if err != nil {
		s.logger.Error(ctx, "reset mail render failed", "user_id", user.ID, "error", err)
		s.metrics.ResetRequested("error")
		return ResetRequestResult{}, common.ErrorInternal
	}

	err = s.sender.Send(ctx, mailer.Message{To: user.Email, Subject: mailer.ResetEmailSubject, HTMLBody: body})
	s.metrics.MailSent(err)
	if err != nil {
		s.logger.Error(ctx, "reset mail delivery failed", "user_id", user.ID, "error", err)
		s.metrics.ResetRequested("delivery_failed")
		return ResetRequestResult{}, fmt.Errorf("%w: %w", ErrEmailDeliveryFailed, err)
	}

	s.logger.Info(ctx, "reset link sent", "user_id", user.ID)
	s.metrics.ResetRequested("sent")
	return genericResetResult(), nil
}

// CompleteReset sets a new password if token is a live reset token for
// userID. The account is loaded by userID, never by token contents.
//
// Errors: ErrAccountNotFound, ErrInvalidOrExpiredToken, common.ErrorValidation
// for a weak password, common.ErrorInternal.
func (s *PasswordResetService) CompleteReset(ctx context.Context, userID, token, newPassword string) error {
	users := s.repomanager.Users(s.db)

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.metrics.ResetCompleted("account_not_found")
			return ErrAccountNotFound
		}
		s.logger.Error(ctx, "reset account lookup failed", "error", err)
		s.metrics.ResetCompleted("error")
		return common.ErrorInternal
	}

	if _, err := auth.VerifyResetToken(token, user.ID, user.PasswordHash, s.secret, s.now()); err != nil {
		s.logger.Debug(ctx, "reset token rejected", "user_id", user.ID, "reason", tokenFailureReason(err))
		s.metrics.ResetCompleted("invalid_token")
		return ErrInvalidOrExpiredToken
	}

	if err := validatePassword(newPassword); err != nil {
		s.metrics.ResetCompleted("invalid_password")
		return err
	}

	newHash, err := hashPassword(newPassword, s.bcryptCost)
	if err != nil {
		s.metrics.ResetCompleted("error")
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, user.PasswordHash, newHash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			// another completion changed the hash first; this token is spent
			s.logger.Info(ctx, "reset lost race to concurrent completion", "user_id", user.ID)
			s.metrics.ResetCompleted("invalid_token")
			return ErrInvalidOrExpiredToken
		}
		s.logger.Error(ctx, "password update failed", "user_id", user.ID, "error", err)
		s.metrics.ResetCompleted("error")
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset completed", "user_id", user.ID)
	s.metrics.ResetCompleted("ok")
	return nil
}

func (s *PasswordResetService) resetURL(userID, token string) string {
	return s.frontendOrigin + "/reset-password/" + url.PathEscape(userID) + "/" + url.PathEscape(token)
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrResetTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrResetTokenSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}
