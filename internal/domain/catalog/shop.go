package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Shop is a vendor storefront. A shop account owns at most one shop.
type Shop struct {
	shared.BaseAggregateRoot
	Name            string
	URL             string
	OwnerID         *uuid.UUID
	AcceptingOrders bool
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Shop name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 50 {
		return shared.NewDomainError(shared.CodeValidation, "Shop name cannot exceed 50 characters")
	}
	return nil
}

// NewShop creates a shop that accepts orders
func NewShop(name string, ownerID *uuid.UUID) (*Shop, error) {
	name = strings.TrimSpace(name)
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		OwnerID:           ownerID,
		AcceptingOrders:   true,
	}, nil
}

// OwnedBy reports whether the shop belongs to the given account
func (s *Shop) OwnedBy(accountID uuid.UUID) bool {
	return s.OwnerID != nil && *s.OwnerID == accountID
}

// SetAcceptingOrders toggles whether the shop takes new orders
func (s *Shop) SetAcceptingOrders(accepting bool) {
	if s.AcceptingOrders == accepting {
		return
	}
	s.AcceptingOrders = accepting
	s.Touch(time.Now())
	s.AddDomainEvent(NewShopStateChangedEvent(s))
}

// Rename changes the shop name when a vendor's feed starts using a new one
func (s *Shop) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateShopName(name); err != nil {
		return err
	}
	if s.Name != name {
		s.Name = name
		s.UpdatedAt = time.Now()
	}
	return nil
}

// SetURL records the feed URL the shop was last imported from
func (s *Shop) SetURL(url string) {
	s.URL = url
	s.UpdatedAt = time.Now()
}
