package importapp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// FeedImporter reconciles vendor feeds into the catalog
type FeedImporter struct {
	txScope        TransactionScope
	accountRepo    identity.AccountRepository
	fetcher        FeedFetcher
	parser         FeedParser
	archive        FeedArchive
	queue          TaskQueue
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewFeedImporter creates a new FeedImporter
func NewFeedImporter(
	txScope TransactionScope,
	accountRepo identity.AccountRepository,
	fetcher FeedFetcher,
	parser FeedParser,
	logger *zap.Logger,
) *FeedImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedImporter{
		txScope:     txScope,
		accountRepo: accountRepo,
		fetcher:     fetcher,
		parser:      parser,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for catalog.imported events
func (s *FeedImporter) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetArchive enables archiving of fetched feeds
func (s *FeedImporter) SetArchive(archive FeedArchive) {
	s.archive = archive
}

// SetQueue sets the background queue used by SubmitImport
func (s *FeedImporter) SetQueue(queue TaskQueue) {
	s.queue = queue
}

// ImportFeed replaces the catalog of the account's shop with the feed contents.
// All writes happen in one transaction; on failure the previous catalog is untouched.
func (s *FeedImporter) ImportFeed(ctx context.Context, accountID uuid.UUID, feed *catalog.Feed) ImportResult {
	return s.importFeed(ctx, accountID, feed, "")
}

func (s *FeedImporter) importFeed(ctx context.Context, accountID uuid.UUID, feed *catalog.Feed, sourceURL string) ImportResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "import")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.AttrAccountID, accountID.String())

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return failure(shared.NewDomainError(shared.CodeNotAuthorized, "not a shop account"))
		}
		return failure(err)
	}
	if !account.IsShop() {
		return failure(shared.NewDomainError(shared.CodeNotAuthorized, "not a shop account"))
	}
	if feed == nil {
		return failure(shared.NewDomainError(shared.CodeFeedMalformed, "Malformed feed: empty document"))
	}
	if err := feed.Validate(); err != nil {
		return failure(err)
	}

	var (
		shop     *catalog.Shop
		imported int
		retired  int
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		run := &importRun{repos: repos, accountID: accountID, params: make(map[string]*catalog.Parameter)}
		if err := run.resolveShop(ctx, feed.Shop, sourceURL); err != nil {
			return err
		}
		if err := run.syncCategories(ctx, feed.Categories); err != nil {
			return err
		}
		if err := run.syncGoods(ctx, feed.Goods); err != nil {
			return err
		}
		if err := run.retireMissing(ctx); err != nil {
			return err
		}
		shop, imported, retired = run.shop, len(run.seen), run.retired
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Catalog import failed",
			zap.String("account_id", accountID.String()),
			zap.String("shop", feed.Shop),
			zap.Error(err),
		)
		return failure(err)
	}

	telemetry.SetAttributes(span,
		telemetry.AttrShopID, shop.ID.String(),
		telemetry.AttrOfferCount, imported,
	)
	s.logger.Info("Catalog imported",
		zap.String("account_id", accountID.String()),
		zap.String("shop_id", shop.ID.String()),
		zap.Int("imported", imported),
		zap.Int("retired", retired),
	)
	if s.eventPublisher != nil {
		event := catalog.NewCatalogImportedEvent(shop, accountID, imported, retired)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish catalog imported event", zap.Error(err))
		}
	}
	return ImportResult{Status: true, Shop: shop.Name, Imported: imported, Retired: retired}
}

// ImportFromURL fetches, archives and parses a feed, then imports it
func (s *FeedImporter) ImportFromURL(ctx context.Context, accountID uuid.UUID, rawURL string) ImportResult {
	if err := ValidateFeedURL(rawURL); err != nil {
		return failure(err)
	}
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return failure(err)
	}
	if s.archive != nil {
		if key, err := s.archive.Store(ctx, accountID, body); err != nil {
			s.logger.Warn("Failed to archive feed", zap.String("url", rawURL), zap.Error(err))
		} else {
			s.logger.Debug("Feed archived", zap.String("key", key))
		}
	}
	feed, err := s.parser.Parse(body)
	if err != nil {
		return failure(err)
	}
	return s.importFeed(ctx, accountID, feed, rawURL)
}

// SubmitImport queues ImportFromURL and returns without waiting for the outcome
func (s *FeedImporter) SubmitImport(ctx context.Context, accountID uuid.UUID, rawURL string) (string, error) {
	if err := ValidateFeedURL(rawURL); err != nil {
		return "", err
	}
	if s.queue == nil {
		return "", shared.NewDomainError(shared.CodeQueueFull, "Import queue is not running")
	}
	jobID, err := s.queue.Submit("catalog-import", func(ctx context.Context) error {
		result := s.ImportFromURL(ctx, accountID, rawURL)
		if !result.Status && result.Code == "" {
			// Uncoded failures come from infrastructure and are worth retrying
			return errors.New(result.Error)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("Catalog import queued",
		zap.String("job_id", jobID),
		zap.String("account_id", accountID.String()),
		zap.String("url", rawURL),
	)
	return jobID, nil
}

// ValidateFeedURL accepts absolute http and https URLs only
func ValidateFeedURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return shared.NewDomainError(shared.CodeValidation, "Feed URL must be an absolute http or https URL")
	}
	return nil
}

func failure(err error) ImportResult {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return ImportResult{Status: false, Error: domainErr.Message, Code: domainErr.Code}
	}
	return ImportResult{Status: false, Error: err.Error()}
}

// importRun holds the state of one import inside its transaction
type importRun struct {
	repos      TransactionalRepositories
	accountID  uuid.UUID
	shop       *catalog.Shop
	categories map[int64]*catalog.Category
	params     map[string]*catalog.Parameter
	existing   map[catalog.ListingKey]*catalog.Listing
	seen       map[uuid.UUID]struct{}
	retired    int
}

// resolveShop finds the account's shop by name, falling back to the account's only shop
// under a previous name.
func (r *importRun) resolveShop(ctx context.Context, name, sourceURL string) error {
	shops := r.repos.ShopRepo()
	shop, err := shops.FindByNameAndOwner(ctx, strings.TrimSpace(name), r.accountID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("find shop: %w", err)
	}
	dirty := shop == nil
	if shop == nil {
		shop, err = shops.FindByOwner(ctx, r.accountID)
		switch {
		case err == nil:
			if err := shop.Rename(name); err != nil {
				return err
			}
		case errors.Is(err, shared.ErrNotFound):
			owner := r.accountID
			shop, err = catalog.NewShop(name, &owner)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("find shop by owner: %w", err)
		}
	}
	if sourceURL != "" && shop.URL != sourceURL {
		shop.SetURL(sourceURL)
		dirty = true
	}
	if dirty {
		if err := shops.Save(ctx, shop); err != nil {
			return fmt.Errorf("save shop: %w", err)
		}
	}
	r.shop = shop
	return nil
}

func (r *importRun) syncCategories(ctx context.Context, declared []catalog.FeedCategory) error {
	categories := r.repos.CategoryRepo()
	r.categories = make(map[int64]*catalog.Category, len(declared))
	for _, fc := range declared {
		category, err := categories.FindByExternalID(ctx, fc.ExternalID)
		switch {
		case err == nil:
			if _, err := category.Rename(fc.Name); err != nil {
				return err
			}
		case errors.Is(err, shared.ErrNotFound):
			category, err = catalog.NewCategory(fc.ExternalID, fc.Name)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("find category %d: %w", fc.ExternalID, err)
		}
		category.AddShop(r.shop.ID)
		if err := categories.Save(ctx, category); err != nil {
			return fmt.Errorf("save category %d: %w", fc.ExternalID, err)
		}
		r.categories[fc.ExternalID] = category
	}
	return nil
}

func (r *importRun) syncGoods(ctx context.Context, goods []catalog.FeedGood) error {
	current, err := r.repos.ListingRepo().FindByShop(ctx, r.shop.ID)
	if err != nil {
		return fmt.Errorf("load shop listings: %w", err)
	}
	r.existing = make(map[catalog.ListingKey]*catalog.Listing, len(current))
	for i := range current {
		r.existing[current[i].Key()] = &current[i]
	}
	r.seen = make(map[uuid.UUID]struct{}, len(goods))

	for _, good := range goods {
		category := r.categories[good.CategoryID]
		product, err := r.product(ctx, good.Name, category.ID)
		if err != nil {
			return err
		}
		key := catalog.ListingKey{ProductID: product.ID, ExternalID: good.ExternalID}
		listing, ok := r.existing[key]
		if ok {
			if err := listing.Apply(good.Offer()); err != nil {
				return err
			}
		} else {
			listing, err = catalog.NewListing(product.ID, r.shop.ID, good.ExternalID, good.Offer())
			if err != nil {
				return err
			}
			r.existing[key] = listing
		}
		params, err := r.parameters(ctx, good.Parameters)
		if err != nil {
			return err
		}
		listing.SetParameters(params)
		if err := r.repos.ListingRepo().Save(ctx, listing); err != nil {
			return fmt.Errorf("save listing %d: %w", good.ExternalID, err)
		}
		r.seen[listing.ID] = struct{}{}
	}
	return nil
}

func (r *importRun) product(ctx context.Context, name string, categoryID uuid.UUID) (*catalog.Product, error) {
	products := r.repos.ProductRepo()
	product, err := products.FindByNameAndCategory(ctx, strings.TrimSpace(name), categoryID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("find product: %w", err)
	}
	product, err = catalog.NewProduct(name, categoryID)
	if err != nil {
		return nil, err
	}
	if err := products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

func (r *importRun) parameters(ctx context.Context, values map[string]string) ([]catalog.ListingParameter, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]catalog.ListingParameter, 0, len(names))
	for _, name := range names {
		param, err := r.parameter(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.ListingParameter{ParameterID: param.ID, Name: param.Name, Value: values[name]})
	}
	return out, nil
}

func (r *importRun) parameter(ctx context.Context, name string) (*catalog.Parameter, error) {
	name = strings.TrimSpace(name)
	if p, ok := r.params[name]; ok {
		return p, nil
	}
	params := r.repos.ParameterRepo()
	param, err := params.FindByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		param, err = catalog.NewParameter(name)
		if err != nil {
			return nil, err
		}
		if err := params.Save(ctx, param); err != nil {
			return nil, fmt.Errorf("save parameter %q: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("find parameter %q: %w", name, err)
	}
	r.params[name] = param
	return param, nil
}

// retireMissing retires active listings the feed no longer carries and drops basket
// lines pointing at them. Placed orders keep their lines.
func (r *importRun) retireMissing(ctx context.Context) error {
	ids := make([]uuid.UUID, 0)
	for _, listing := range r.existing {
		if _, ok := r.seen[listing.ID]; ok || listing.IsRetired() {
			continue
		}
		ids = append(ids, listing.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if err := r.repos.ListingRepo().Retire(ctx, ids); err != nil {
		return fmt.Errorf("retire listings: %w", err)
	}
	if _, err := r.repos.OrderRepo().DeleteBasketLinesForListings(ctx, ids); err != nil {
		return fmt.Errorf("drop basket lines: %w", err)
	}
	r.retired = len(ids)
	return nil
}
