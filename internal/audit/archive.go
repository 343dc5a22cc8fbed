package audit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/restaurant-app/internal/config"
)

// Archiver keeps a copy of records that are about to disappear.
type Archiver interface {
	Archive(ctx context.Context, key string, payload []byte) error
}

func NewArchiver(cfg config.ArchiveConfig, log *slog.Logger) Archiver {
	if cfg.Bucket == "" {
		return NewLogArchiver(log)
	}
	return NewS3Archiver(cfg)
}

// ================================
// S3
// ================================

type S3Archiver struct {
	client *s3.Client
	bucket string
}

func NewS3Archiver(cfg config.ArchiveConfig) *S3Archiver {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		// MinIO and other S3 compatibles
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Archiver{
		client: s3.New(opts),
		bucket: cfg.Bucket,
	}
}

func (a *S3Archiver) Archive(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}

// ================================
// Log fallback
// ================================

type LogArchiver struct {
	log *slog.Logger
}

func NewLogArchiver(log *slog.Logger) *LogArchiver {
	if log == nil {
		log = slog.Default()
	}
	return &LogArchiver{log: log}
}

func (a *LogArchiver) Archive(_ context.Context, key string, payload []byte) error {
	a.log.Info("archived record", slog.String("key", key), slog.String("payload", string(payload)))
	return nil
}
