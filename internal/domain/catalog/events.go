package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeShop = "Shop"
)

// Event type constants
const (
	EventTypeCatalogImported  = "catalog.imported"
	EventTypeShopStateChanged = "shop.state_changed"
)

// CatalogImportedEvent is published after a feed has been reconciled into a shop
type CatalogImportedEvent struct {
	shared.BaseDomainEvent
	ShopID   uuid.UUID `json:"shop_id"`
	ShopName string    `json:"shop_name"`
	Imported int       `json:"imported"`
	Retired  int       `json:"retired"`
}

// NewCatalogImportedEvent creates a CatalogImportedEvent for the shop owner
func NewCatalogImportedEvent(shop *Shop, ownerID uuid.UUID, imported, retired int) *CatalogImportedEvent {
	return &CatalogImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogImported, AggregateTypeShop, shop.ID, ownerID),
		ShopID:          shop.ID,
		ShopName:        shop.Name,
		Imported:        imported,
		Retired:         retired,
	}
}

// ShopStateChangedEvent is published when a shop starts or stops accepting orders
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopID          uuid.UUID `json:"shop_id"`
	AcceptingOrders bool      `json:"accepting_orders"`
}

// NewShopStateChangedEvent creates a ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	owner := uuid.Nil
	if shop.OwnerID != nil {
		owner = *shop.OwnerID
	}
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, shop.ID, owner),
		ShopID:          shop.ID,
		AcceptingOrders: shop.AcceptingOrders,
	}
}
