package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// BasketItem is one requested basket line. BasketService validates each entry on its own.
type BasketItem struct {
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

// BasketItemsRequest adds or updates basket lines
type BasketItemsRequest struct {
	Items []BasketItem `json:"items" binding:"required,min=1,max=100"`
}

// BasketRemoveRequest removes basket lines by listing
type BasketRemoveRequest struct {
	Items []uuid.UUID `json:"items" binding:"required,min=1,max=100"`
}

// ItemError explains why one requested item was skipped
type ItemError struct {
	Index     int    `json:"index"`
	ListingID string `json:"listing_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BasketUpdateResult reports a partially successful basket edit
type BasketUpdateResult struct {
	Applied int         `json:"applied"`
	Errors  []ItemError `json:"errors"`
}

// CheckoutRequest places the basket
type CheckoutRequest struct {
	ContactID uuid.UUID `json:"contact_id" binding:"required"`
}

// SetStatusRequest moves an order to a new status
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new confirmed assembled sent delivered canceled basket"`
}

// OrderFilter holds order listing query parameters
type OrderFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=basket new confirmed assembled sent delivered canceled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// OrderLineResponse is one priced order line
type OrderLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ListingID      uuid.UUID       `json:"listing_id"`
	Product        string          `json:"product"`
	Category       string          `json:"category"`
	Model          string          `json:"model"`
	ShopID         uuid.UUID       `json:"shop_id"`
	Shop           string          `json:"shop"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Sum            decimal.Decimal `json:"sum"`
	ListingRetired bool            `json:"listing_retired,omitempty"`
}

// OrderResponse is an order or basket with its computed total
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	AccountID uuid.UUID           `json:"account_id"`
	Status    string              `json:"status"`
	ContactID *uuid.UUID          `json:"contact_id,omitempty"`
	Lines     []OrderLineResponse `json:"ordered_items"`
	Total     decimal.Decimal     `json:"total_sum"`
	CreatedAt time.Time           `json:"dt"`
	PlacedAt  *time.Time          `json:"placed_at,omitempty"`
}

// ToOrderResponse converts an order view
func ToOrderResponse(v *trade.OrderView) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, OrderLineResponse{
			ID:             l.LineID,
			ListingID:      l.ListingID,
			Product:        l.ProductName,
			Category:       l.CategoryName,
			Model:          l.Model,
			ShopID:         l.ShopID,
			Shop:           l.ShopName,
			Quantity:       l.Quantity,
			Price:          l.Price,
			Sum:            l.Sum(),
			ListingRetired: l.ListingRetired,
		})
	}
	return OrderResponse{
		ID:        v.Order.ID,
		AccountID: v.Order.AccountID,
		Status:    v.Order.Status.String(),
		ContactID: v.Order.ContactID,
		Lines:     lines,
		Total:     v.Total,
		CreatedAt: v.Order.CreatedAt,
		PlacedAt:  v.Order.PlacedAt,
	}
}
