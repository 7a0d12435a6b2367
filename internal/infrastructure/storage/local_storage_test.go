package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalObjectStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalObjectStorage(filepath.Join(root, "objects"))
	require.NoError(t, err)

	key := "feeds/acc-1/feed.yaml"

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, key, []byte("shop: A"), "application/yaml"))

		data, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "shop: A", string(data))

		_, err = os.Stat(filepath.Join(root, "objects", "feeds", "acc-1", "feed.yaml"))
		assert.NoError(t, err)
	})

	t.Run("put overwrites without leaving temp files", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, key, []byte("shop: B"), ""))
		data, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "shop: B", string(data))

		entries, err := os.ReadDir(filepath.Join(root, "objects", "feeds", "acc-1"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("exists and delete", func(t *testing.T) {
		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, s.Delete(ctx, key))
		require.NoError(t, s.Delete(ctx, key), "deleting twice succeeds")

		ok, err = s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Get(ctx, key)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("keys cannot escape the root", func(t *testing.T) {
		for _, bad := range []string{"", "../outside", "/etc/passwd", "a/../../b"} {
			assert.Error(t, s.Put(ctx, bad, []byte("x"), ""), bad)
		}
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &config.StorageConfig{Type: "local", LocalPath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalObjectStorage{}, s)

	_, err = New(ctx, &config.StorageConfig{Type: "ftp"}, zap.NewNop())
	assert.Error(t, err)

	_, srv := newFakeS3(t, true)
	s, err = New(ctx, testS3Config(srv.URL), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &S3ObjectStorage{}, s)
}
