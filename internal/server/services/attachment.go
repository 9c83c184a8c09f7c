package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	sc "github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// UploadTicket is handed to the client, which PUTs the file bytes to URL
// and then reports completion with the attachment id.
type UploadTicket struct {
	Attachment *models.Attachment
	URL        string
}

// AttachmentService links files in S3-compatible storage to notes. The
// server never proxies file bytes; clients use presigned URLs.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewAttachmentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		logger:      logger.With("module", "attachments"),
		now:         time.Now,
	}
}

func (s *AttachmentService) storageKey(userID string) string {
	d := s.now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// RequestUpload records a pending attachment on a note of userID and returns
// a presigned PUT URL for it.
func (s *AttachmentService) RequestUpload(ctx context.Context, userID, noteID, fileName, contentType string) (*UploadTicket, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.ownNote(ctx, userID, noteID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, err
	}

	a := &models.Attachment{
		ID:          uuid.NewString(),
		NoteID:      noteID,
		UserID:      userID,
		FileName:    fileName,
		ContentType: contentType,
		StorageKey:  key,
		Status:      models.UploadStatusPending,
	}
	if err := s.repomanager.Attachments(s.db).Create(ctx, a); err != nil {
		return nil, fmt.Errorf("error creating attachment: %w", err)
	}
	return &UploadTicket{Attachment: a, URL: req.URL}, nil
}

func (s *AttachmentService) MarkUploaded(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Attachments(s.db).MarkUploaded(ctx, id); err != nil {
		return fmt.Errorf("error updating attachment: %w", err)
	}
	return nil
}

// DownloadURL presigns a GET for an uploaded attachment of userID.
func (s *AttachmentService) DownloadURL(ctx context.Context, userID, id string) (string, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if a.Status != models.UploadStatusUploaded {
		return "", fmt.Errorf("%w: upload not finished", common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket:                     &bucket,
		Key:                        &a.StorageKey,
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", a.FileName)),
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *AttachmentService) List(ctx context.Context, userID, noteID string) ([]*models.Attachment, error) {
	if err := s.ownNote(ctx, userID, noteID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Attachments(s.db).ListByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	return list, nil
}

func (s *AttachmentService) ownNote(ctx context.Context, userID, noteID string) error {
	n, err := s.repomanager.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading note: %w", err)
	}
	if n.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

func (s *AttachmentService) owned(ctx context.Context, userID, id string) (*models.Attachment, error) {
	a, err := s.repomanager.Attachments(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading attachment: %w", err)
	}
	if a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return a, nil
}
