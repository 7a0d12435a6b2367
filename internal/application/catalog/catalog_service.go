package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService serves the public catalog and the shop state toggle
type CatalogService struct {
	shopRepo       catalog.ShopRepository
	categoryRepo   catalog.CategoryRepository
	listingRepo    catalog.ListingRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	shopRepo catalog.ShopRepository,
	categoryRepo catalog.CategoryRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
		listingRepo:  listingRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for shop state events
func (s *CatalogService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListCategories lists all categories
func (s *CatalogService) ListCategories(ctx context.Context, page PageFilter) ([]CategoryResponse, int64, error) {
	filter := toFilter(page.Page, page.PageSize, "name", "asc")
	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out, total, nil
}

// ListShops lists shops that currently accept orders
func (s *CatalogService) ListShops(ctx context.Context, page PageFilter) ([]ShopResponse, int64, error) {
	filter := toFilter(page.Page, page.PageSize, "name", "asc")
	shops, total, err := s.shopRepo.FindAll(ctx, filter, true)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, ToShopResponse(&shops[i]))
	}
	return out, total, nil
}

// ListListings browses active listings of accepting shops, optionally narrowed by shop and category
func (s *CatalogService) ListListings(ctx context.Context, f ListingFilter) ([]ListingResponse, int64, error) {
	query := catalog.ListingQuery{
		ShopID:     f.ShopID,
		CategoryID: f.CategoryID,
		Search:     f.Search,
		Filter:     toFilter(f.Page, f.PageSize, "product_name", "asc"),
	}
	views, total, err := s.listingRepo.Search(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ListingResponse, 0, len(views))
	for i := range views {
		out = append(out, ToListingResponse(&views[i]))
	}
	return out, total, nil
}

// GetListing returns one active listing
func (s *CatalogService) GetListing(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	view, err := s.listingRepo.FindView(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToListingResponse(view)
	return &resp, nil
}

// GetShopState returns the caller's shop
func (s *CatalogService) GetShopState(ctx context.Context, actor identity.Actor) (*ShopResponse, error) {
	shop, err := s.ownShop(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// SetShopState switches order acceptance of the caller's shop
func (s *CatalogService) SetShopState(ctx context.Context, actor identity.Actor, accepting bool) (*ShopResponse, error) {
	shop, err := s.ownShop(ctx, actor)
	if err != nil {
		return nil, err
	}
	shop.SetAcceptingOrders(accepting)
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, shop); err != nil {
		s.logger.Warn("Failed to publish shop state event", zap.String("shop_id", shop.ID.String()), zap.Error(err))
	}
	s.logger.Info("Shop state changed",
		zap.String("shop_id", shop.ID.String()),
		zap.Bool("accepting_orders", shop.AcceptingOrders),
	)
	resp := ToShopResponse(shop)
	return &resp, nil
}

func (s *CatalogService) ownShop(ctx context.Context, actor identity.Actor) (*catalog.Shop, error) {
	if !actor.IsShop() {
		return nil, shared.NewDomainError(shared.CodeNotAuthorized, "Only shop accounts have a shop")
	}
	shop, err := s.shopRepo.FindByOwner(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Shop not found; import a catalog first")
		}
		return nil, err
	}
	return shop, nil
}

func toFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = orderBy
	f.OrderDir = orderDir
	return f
}
