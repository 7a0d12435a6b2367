package catalog

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Listing is a product as offered by one shop: price, stock and the vendor's own id.
// (ProductID, ShopID, ExternalID) is unique. A listing dropped from a later feed is
// retired rather than deleted so that placed orders keep their lines.
type Listing struct {
	shared.BaseEntity
	ProductID        uuid.UUID
	ShopID           uuid.UUID
	ExternalID       int64
	Model            string
	Quantity         int
	Price            decimal.Decimal
	RecommendedPrice decimal.Decimal
	Parameters       []ListingParameter
	RetiredAt        *time.Time
}

// ListingParameter is the value of one parameter on one listing
type ListingParameter struct {
	ParameterID uuid.UUID
	Name        string
	Value       string
}

// ListingKey identifies a listing within a shop
type ListingKey struct {
	ProductID  uuid.UUID
	ExternalID int64
}

// Offer carries the vendor-controlled fields of a listing
type Offer struct {
	Model            string
	Quantity         int
	Price            decimal.Decimal
	RecommendedPrice decimal.Decimal
}

func (o Offer) validate() error {
	if o.Quantity < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity cannot be negative")
	}
	if o.Price.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Price cannot be negative")
	}
	if o.RecommendedPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Recommended price cannot be negative")
	}
	if utf8.RuneCountInString(o.Model) > 80 {
		return shared.NewDomainError(shared.CodeValidation, "Model cannot exceed 80 characters")
	}
	return nil
}

// NewListing creates a listing for a product in a shop
func NewListing(productID, shopID uuid.UUID, externalID int64, offer Offer) (*Listing, error) {
	if productID == uuid.Nil || shopID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Listing requires a product and a shop")
	}
	if err := offer.validate(); err != nil {
		return nil, err
	}
	return &Listing{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		ShopID:           shopID,
		ExternalID:       externalID,
		Model:            offer.Model,
		Quantity:         offer.Quantity,
		Price:            offer.Price,
		RecommendedPrice: offer.RecommendedPrice,
		Parameters:       make([]ListingParameter, 0),
	}, nil
}

// Key returns the listing's identity within its shop
func (l *Listing) Key() ListingKey {
	return ListingKey{ProductID: l.ProductID, ExternalID: l.ExternalID}
}

// Apply overwrites the offer and brings a retired listing back
func (l *Listing) Apply(offer Offer) error {
	if err := offer.validate(); err != nil {
		return err
	}
	l.Model = offer.Model
	l.Quantity = offer.Quantity
	l.Price = offer.Price
	l.RecommendedPrice = offer.RecommendedPrice
	l.RetiredAt = nil
	l.UpdatedAt = time.Now()
	return nil
}

// SetParameters replaces all parameter values. Entries are sorted by name.
func (l *Listing) SetParameters(params []ListingParameter) {
	byID := make(map[uuid.UUID]ListingParameter, len(params))
	for _, p := range params {
		byID[p.ParameterID] = p
	}
	out := make([]ListingParameter, 0, len(byID))
	for _, p := range byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	l.Parameters = out
}

// Retire hides the listing from the catalog
func (l *Listing) Retire() {
	if l.RetiredAt != nil {
		return
	}
	now := time.Now()
	l.RetiredAt = &now
	l.UpdatedAt = now
}

// IsRetired reports whether the listing was dropped by a later import
func (l *Listing) IsRetired() bool {
	return l.RetiredAt != nil
}

// ParameterValue returns the value for a parameter name
func (l *Listing) ParameterValue(name string) (string, bool) {
	for _, p := range l.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// ListingView is a listing joined with its product, category and shop for display
type ListingView struct {
	Listing
	ProductName     string
	CategoryID      uuid.UUID
	CategoryName    string
	ShopName        string
	AcceptingOrders bool
}
