package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/infrastructure/storage"
)

// Archive keeps raw feed bodies in object storage under
// <prefix>/<account>/<timestamp>-<id>.yaml
type Archive struct {
	store  storage.ObjectStorage
	prefix string
	now    func() time.Time
}

// NewArchive creates an archive writing below prefix
func NewArchive(store storage.ObjectStorage, prefix string) *Archive {
	if prefix == "" {
		prefix = "feeds"
	}
	return &Archive{store: store, prefix: prefix, now: time.Now}
}

// Store uploads body and returns its key
func (a *Archive) Store(ctx context.Context, accountID uuid.UUID, body []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s-%s.yaml",
		a.prefix,
		accountID,
		a.now().UTC().Format("20060102T150405Z"),
		uuid.NewString()[:8],
	)
	if err := a.store.Put(ctx, key, body, "application/yaml"); err != nil {
		return "", fmt.Errorf("archive feed: %w", err)
	}
	return key, nil
}
