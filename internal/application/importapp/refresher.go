package importapp

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Refresher re-queues the last known feed of every open shop. It is meant to run
// on a schedule; each shop becomes its own import job.
type Refresher struct {
	shopRepo catalog.ShopRepository
	importer *FeedImporter
	pageSize int
	logger   *zap.Logger
}

// NewRefresher creates a refresher submitting through importer
func NewRefresher(shopRepo catalog.ShopRepository, importer *FeedImporter, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		shopRepo: shopRepo,
		importer: importer,
		pageSize: shared.DefaultFilter().PageSize,
		logger:   logger,
	}
}

// Run walks the open shops page by page and queues one import per shop with an
// owner and a feed URL. A full queue stops the walk; the next tick picks up the rest.
func (r *Refresher) Run(ctx context.Context) error {
	filter := shared.DefaultFilter()
	filter.PageSize = r.pageSize
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"

	queued, skipped := 0, 0
	for seen := int64(0); ; filter.Page++ {
		shops, total, err := r.shopRepo.FindAll(ctx, filter, true)
		if err != nil {
			return fmt.Errorf("list shops: %w", err)
		}
		for i := range shops {
			shop := &shops[i]
			if shop.OwnerID == nil || shop.URL == "" {
				skipped++
				continue
			}
			if _, err := r.importer.SubmitImport(ctx, *shop.OwnerID, shop.URL); err != nil {
				if shared.CodeOf(err) == shared.CodeQueueFull {
					r.logger.Warn("Feed refresh stopped early", zap.Int("queued", queued), zap.Error(err))
					return nil
				}
				r.logger.Warn("Feed refresh skipped shop",
					zap.String("shop_id", shop.ID.String()),
					zap.String("url", shop.URL),
					zap.Error(err),
				)
				skipped++
				continue
			}
			queued++
		}
		seen += int64(len(shops))
		if len(shops) == 0 || seen >= total {
			break
		}
	}
	r.logger.Info("Feed refresh queued", zap.Int("queued", queued), zap.Int("skipped", skipped))
	return nil
}
