// Package storage provides object storage for archived catalog feeds.
package storage

import (
	"context"
	"errors"
	"fmt"

	infraconfig "github.com/shopfront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned by Get for a missing key
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStorage stores opaque objects by key
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// New creates the backend selected by cfg.Type
func New(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalObjectStorage(cfg.LocalPath)
	case "s3":
		s, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown type %q", cfg.Type)
	}
}

func requireKey(key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
