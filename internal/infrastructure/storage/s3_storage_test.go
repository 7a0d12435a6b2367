package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 serves the path-style subset of the S3 API used by S3ObjectStorage
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	exists  bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(t *testing.T, bucketExists bool) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{
		bucket:  "feeds",
		exists:  bucketExists,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != f.bucket {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
		return
	}

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.exists = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", f.types[key])
		_, _ = w.Write(body)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) object(key string) ([]byte, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key], f.types[key]
}

func (f *fakeS3) bucketExists() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+code+`</Message></Error>`)
}

func testS3Config(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Type:         "s3",
		Endpoint:     endpoint,
		Region:       "us-east-1",
		Bucket:       "feeds",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing keys", &config.StorageConfig{Bucket: "feeds"}, "secret key are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3ObjectStorage(testS3Config("localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "feeds", s.Bucket())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", false, ""},
		{"localhost:9000", false, "http://localhost:9000"},
		{"minio.internal", true, "https://minio.internal"},
		{"https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3ObjectStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t, true)
	s, err := NewS3ObjectStorage(testS3Config(srv.URL), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	key := "feeds/acc-1/20240301T120000Z.yaml"
	body := []byte("shop: Связной\n")

	require.NoError(t, s.Put(ctx, key, body, "application/yaml"))
	stored, contentType := fake.object(key)
	assert.Equal(t, body, stored)
	assert.Equal(t, "application/yaml", contentType)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3ObjectStorage_EnsureBucket(t *testing.T) {
	fake, srv := newFakeS3(t, false)
	s, err := NewS3ObjectStorage(testS3Config(srv.URL))
	require.NoError(t, err)

	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.True(t, fake.bucketExists())
	require.NoError(t, s.EnsureBucket(context.Background()))
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(testS3Config("localhost:9000"))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "", nil, ""))
	_, err = s.Get(ctx, "")
	assert.Error(t, err)
	_, err = s.Exists(ctx, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
}
