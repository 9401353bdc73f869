// Package storage publishes synthesized audio so a browser can fetch it.
package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/config"
)

//go:generate mockgen -destination=../mocks/mock_storage.go -package=mocks github.com/mrsingh-rishi/voice-translate/storage Store

// Store copies a local file under key and returns the URL it is served at.
type Store interface {
	Save(ctx context.Context, localPath, key string) (string, error)
}

// ErrBadKey rejects keys that would escape the store root.
var ErrBadKey = errors.New("invalid storage key")

// LocalStore keeps files in a directory served at /static.
type LocalStore struct {
	Dir    string
	Prefix string
}

// NewLocalStore returns a store rooted at dir serving under /static.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir, Prefix: "/static"}
}

func (s *LocalStore) Save(ctx context.Context, localPath, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "create store dir")
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", err
	}
	return strings.TrimRight(s.Prefix, "/") + "/" + clean, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create destination")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copy audio")
	}
	return out.Close()
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + filepath.ToSlash(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", errors.Wrapf(ErrBadKey, "%q", key)
	}
	return k, nil
}

// FromConfig returns an S3Store when a bucket is configured and a LocalStore otherwise.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Store, error) {
	if cfg.S3.Enabled() {
		return NewS3Store(ctx, cfg.S3, logger)
	}
	return NewLocalStore(cfg.AudioDir), nil
}
