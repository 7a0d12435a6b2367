package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	ExternalID int64     `json:"external_id"`
	Name       string    `json:"name"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url,omitempty"`
	AcceptingOrders bool      `json:"state"`
}

// ParameterResponse is one parameter value of a listing
type ParameterResponse struct {
	Name  string `json:"parameter"`
	Value string `json:"value"`
}

// ListingResponse represents a listing with its product and shop
type ListingResponse struct {
	ID               uuid.UUID           `json:"id"`
	ExternalID       int64               `json:"external_id"`
	Model            string              `json:"model"`
	ProductID        uuid.UUID           `json:"product_id"`
	ProductName      string              `json:"product"`
	CategoryID       uuid.UUID           `json:"category_id"`
	CategoryName     string              `json:"category"`
	ShopID           uuid.UUID           `json:"shop_id"`
	ShopName         string              `json:"shop"`
	Quantity         int                 `json:"quantity"`
	Price            decimal.Decimal     `json:"price"`
	RecommendedPrice decimal.Decimal     `json:"price_rrc"`
	Parameters       []ParameterResponse `json:"parameters"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ListingFilter holds catalog browse query parameters. The ID filters are
// parsed by the caller from the shop_id and category_id query parameters.
type ListingFilter struct {
	ShopID     *uuid.UUID `form:"-"`
	CategoryID *uuid.UUID `form:"-"`
	Search     string     `form:"search" binding:"max=80"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// PageFilter holds plain pagination query parameters
type PageFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ShopStateRequest toggles whether a shop takes orders
type ShopStateRequest struct {
	State *bool `json:"state" binding:"required"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, ExternalID: c.ExternalID, Name: c.Name}
}

// ToShopResponse converts a domain shop
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL, AcceptingOrders: s.AcceptingOrders}
}

// ToListingResponse converts a listing view
func ToListingResponse(v *catalog.ListingView) ListingResponse {
	params := make([]ParameterResponse, 0, len(v.Parameters))
	for _, p := range v.Parameters {
		params = append(params, ParameterResponse{Name: p.Name, Value: p.Value})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	return ListingResponse{
		ID:               v.ID,
		ExternalID:       v.ExternalID,
		Model:            v.Model,
		ProductID:        v.ProductID,
		ProductName:      v.ProductName,
		CategoryID:       v.CategoryID,
		CategoryName:     v.CategoryName,
		ShopID:           v.ShopID,
		ShopName:         v.ShopName,
		Quantity:         v.Quantity,
		Price:            v.Price,
		RecommendedPrice: v.RecommendedPrice,
		Parameters:       params,
		UpdatedAt:        v.UpdatedAt,
	}
}
