package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// OrderQuery filters order listings
type OrderQuery struct {
	AccountID *uuid.UUID
	// ShopID keeps orders with at least one line of the shop
	ShopID *uuid.UUID
	Status *OrderStatus
	// PlacedOnly hides basket orders
	PlacedOnly bool
	Filter     shared.Filter
}

// OrderRepository persists orders and their lines
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindBasket returns the account's basket or shared.ErrNotFound
	FindBasket(ctx context.Context, accountID uuid.UUID) (*Order, error)
	// CreateBasket inserts a basket; a concurrent basket for the same account yields shared.ErrAlreadyExists
	CreateBasket(ctx context.Context, order *Order) error
	// Save writes the order row and upserts its lines by listing. Lines stored but
	// missing from order.Lines are left alone.
	Save(ctx context.Context, order *Order) error
	// SaveLines upserts only the given lines by (order, listing) in one statement
	SaveLines(ctx context.Context, orderID uuid.UUID, lines []OrderLine) error
	// DeleteLines removes the lines of the listings from one order and reports how many went
	DeleteLines(ctx context.Context, orderID uuid.UUID, listingIDs []uuid.UUID) (int64, error)
	Find(ctx context.Context, query OrderQuery) ([]Order, int64, error)
	// LineDetails loads display data for the lines of the given orders, keyed by order ID
	LineDetails(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]LineDetails, error)
	// DeleteBasketLinesForListings removes basket lines pointing at the listings
	DeleteBasketLinesForListings(ctx context.Context, listingIDs []uuid.UUID) (int64, error)
}
