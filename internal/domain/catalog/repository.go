package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ShopRepository persists shops
type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	// FindByOwner returns the shop owned by the account or shared.ErrNotFound
	FindByOwner(ctx context.Context, accountID uuid.UUID) (*Shop, error)
	FindByNameAndOwner(ctx context.Context, name string, accountID uuid.UUID) (*Shop, error)
	// FindAll lists shops; acceptingOnly hides shops that stopped taking orders
	FindAll(ctx context.Context, filter shared.Filter, acceptingOnly bool) ([]Shop, int64, error)
	Save(ctx context.Context, shop *Shop) error
}

// CategoryRepository persists categories and their shop links
type CategoryRepository interface {
	FindByExternalID(ctx context.Context, externalID int64) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, int64, error)
	// Save upserts the category row and adds any missing shop links
	Save(ctx context.Context, category *Category) error
}

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*Product, error)
	Save(ctx context.Context, product *Product) error
}

// ParameterRepository persists global parameter names
type ParameterRepository interface {
	FindByName(ctx context.Context, name string) (*Parameter, error)
	Save(ctx context.Context, parameter *Parameter) error
}

// ListingQuery filters catalog browse results
type ListingQuery struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Filter     shared.Filter
}

// ListingRepository persists listings and their parameter values
type ListingRepository interface {
	// FindByID returns an active listing; retired listings yield shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	// FindByIDs returns active listings among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	// FindByShop returns every listing of a shop, retired ones included
	FindByShop(ctx context.Context, shopID uuid.UUID) ([]Listing, error)
	// Save upserts the listing and replaces its parameter values
	Save(ctx context.Context, listing *Listing) error
	// Retire marks listings retired
	Retire(ctx context.Context, ids []uuid.UUID) error
	// Search lists active listings of accepting shops
	Search(ctx context.Context, query ListingQuery) ([]ListingView, int64, error)
	// FindView returns one active listing with its display fields
	FindView(ctx context.Context, id uuid.UUID) (*ListingView, error)
}
