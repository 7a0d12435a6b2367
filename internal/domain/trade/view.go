package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDetails is what an order line shows about its listing at read time
type LineDetails struct {
	LineID         uuid.UUID
	ListingID      uuid.UUID
	Quantity       int
	ProductName    string
	CategoryName   string
	Model          string
	ShopID         uuid.UUID
	ShopName       string
	Price          decimal.Decimal
	ListingRetired bool
}

// Sum is quantity × price
func (d LineDetails) Sum() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// OrderView is an order with its lines priced at the listings' current prices
type OrderView struct {
	Order *Order
	Lines []LineDetails
	Total decimal.Decimal
}

// NewOrderView computes the total as Σ quantity × listing price over the lines
func NewOrderView(order *Order, lines []LineDetails) *OrderView {
	return &OrderView{
		Order: order,
		Lines: lines,
		Total: Total(lines),
	}
}

// Total sums quantity × price over lines
func Total(lines []LineDetails) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Sum())
	}
	return total
}

// ShopNames returns the distinct shop names of the lines in first-seen order
func (v *OrderView) ShopNames() []string {
	seen := make(map[uuid.UUID]struct{})
	names := make([]string, 0, 1)
	for _, l := range v.Lines {
		if _, ok := seen[l.ShopID]; ok {
			continue
		}
		seen[l.ShopID] = struct{}{}
		names = append(names, l.ShopName)
	}
	return names
}

// SellsFrom reports whether any line belongs to the shop
func (v *OrderView) SellsFrom(shopID uuid.UUID) bool {
	for _, l := range v.Lines {
		if l.ShopID == shopID {
			return true
		}
	}
	return false
}
