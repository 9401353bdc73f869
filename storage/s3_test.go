package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-translate/config"
)

// fakeBucket answers the two calls S3Store makes: HEAD bucket and PUT object.
type fakeBucket struct {
	bucket string

	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")

	switch {
	case r.Method == http.MethodHead && key == "":
		if bucket != f.bucket {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && bucket == f.bucket && key != "":
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.objects[key] = body
		f.headers[key] = r.Header.Clone()
		f.mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func s3Config(t *testing.T, bucket string) (config.S3Config, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{bucket: "audio", objects: map[string][]byte{}, headers: map[string]http.Header{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return config.S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    bucket,
		Region:    "us-east-1",
		Secure:    false,
	}, fake
}

func TestS3StoreSave(t *testing.T) {
	cfg, fake := s3Config(t, "audio")
	ctx := context.Background()

	store, err := NewS3Store(ctx, cfg, nil)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "clip.wav")
	payload := []byte("RIFF-fake-wav-payload")
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	u, err := store.Save(ctx, src, "audio/translated ta.wav")
	require.NoError(t, err)
	assert.Equal(t, "http://"+cfg.Endpoint+"/audio/audio/translated%20ta.wav", u)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	body, ok := fake.objects["audio/translated ta.wav"]
	require.True(t, ok)
	assert.True(t, bytes.Contains(body, payload))

	hdr := fake.headers["audio/translated ta.wav"]
	assert.Equal(t, contentType("x.wav"), hdr.Get("Content-Type"))
	assert.NotEmpty(t, hdr.Get("X-Amz-Meta-Uploaded-At"))
}

func TestS3StoreRejectsBadKey(t *testing.T) {
	cfg, _ := s3Config(t, "audio")
	store, err := NewS3Store(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "unused", "../up.wav")
	assert.ErrorIs(t, err, ErrBadKey)
}

func TestNewS3StoreMissingBucket(t *testing.T) {
	cfg, _ := s3Config(t, "nope")
	_, err := NewS3Store(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bucket "nope" does not exist`)
}
