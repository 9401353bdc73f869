package storage

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
)

// S3Store uploads to an S3-compatible bucket and returns its public URL.
type S3Store struct {
	client *minio.Client
	bucket string
	host   string
	logger *zap.SugaredLogger
}

func NewS3Store(ctx context.Context, cfg config.S3Config, logger *zap.SugaredLogger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init S3 client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		return nil, errors.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		host:   hostURL(cfg.Endpoint, cfg.Secure),
		logger: loggerOrNop(logger),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, localPath, key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	info, err := s.client.FPutObject(ctx, s.bucket, clean, localPath, minio.PutObjectOptions{
		ContentType:  contentType(clean),
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", errors.Wrap(err, "upload failed")
	}
	s.logger.Infof("☁️ uploaded %s (%d bytes)", clean, info.Size)
	return publicURL(s.host, s.bucket, clean), nil
}

func hostURL(endpoint string, secure bool) string {
	if secure {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func publicURL(host, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", host, bucket, (&url.URL{Path: filepath.ToSlash(key)}).EscapedPath())
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func loggerOrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
