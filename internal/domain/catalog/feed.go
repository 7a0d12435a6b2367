package catalog

import (
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Feed is a vendor's catalog document: one shop, its categories and its goods
type Feed struct {
	Shop       string
	Categories []FeedCategory
	Goods      []FeedGood
}

// FeedCategory is a category declared by a feed
type FeedCategory struct {
	ExternalID int64
	Name       string
}

// FeedGood is one offered good. CategoryID refers to a FeedCategory.ExternalID.
type FeedGood struct {
	ExternalID       int64
	CategoryID       int64
	Name             string
	Model            string
	Price            decimal.Decimal
	RecommendedPrice decimal.Decimal
	Quantity         int
	Parameters       map[string]string
}

// Offer returns the listing fields carried by the good
func (g FeedGood) Offer() Offer {
	return Offer{
		Model:            g.Model,
		Quantity:         g.Quantity,
		Price:            g.Price,
		RecommendedPrice: g.RecommendedPrice,
	}
}

// Validate checks the cross references a parser cannot: every good must point at a
// declared category and the shop must be named.
func (f *Feed) Validate() error {
	if strings.TrimSpace(f.Shop) == "" {
		return malformed("shop name is required")
	}
	declared := make(map[int64]struct{}, len(f.Categories))
	for i, c := range f.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return malformed(fmt.Sprintf("categories[%d]: name is required", i))
		}
		declared[c.ExternalID] = struct{}{}
	}
	for i, g := range f.Goods {
		if _, ok := declared[g.CategoryID]; !ok {
			return malformed(fmt.Sprintf("goods[%d]: category %d is not declared", i, g.CategoryID))
		}
		if strings.TrimSpace(g.Name) == "" {
			return malformed(fmt.Sprintf("goods[%d]: name is required", i))
		}
		if err := g.Offer().validate(); err != nil {
			return malformed(fmt.Sprintf("goods[%d]: %s", i, err.Error()))
		}
	}
	return nil
}

func malformed(msg string) error {
	return shared.NewDomainError(shared.CodeFeedMalformed, "Malformed feed: "+msg)
}
