package importapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
)

// FeedFetcher downloads a raw feed document
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedParser decodes a raw feed document
type FeedParser interface {
	Parse(data []byte) (*catalog.Feed, error)
}

// FeedArchive keeps a copy of every fetched feed. Archiving is best effort.
type FeedArchive interface {
	Store(ctx context.Context, accountID uuid.UUID, body []byte) (string, error)
}

// TaskQueue runs named work in the background and returns a job ID
type TaskQueue interface {
	Submit(name string, run func(ctx context.Context) error) (string, error)
}
