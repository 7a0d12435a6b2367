package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Category groups products. ExternalID is the id vendors use in their feeds and is
// global: two vendors naming category 7 share the row.
type Category struct {
	shared.BaseEntity
	ExternalID int64
	Name       string
	ShopIDs    []uuid.UUID
}

// NewCategory creates a category with no shops
func NewCategory(externalID int64, name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Name:       strings.TrimSpace(name),
		ShopIDs:    make([]uuid.UUID, 0),
	}, nil
}

// Rename changes the category name. Returns true if the name changed.
func (c *Category) Rename(name string) (bool, error) {
	if err := validateCategoryName(name); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if c.Name == name {
		return false, nil
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return true, nil
}

// HasShop reports whether the shop is linked to the category
func (c *Category) HasShop(shopID uuid.UUID) bool {
	for _, id := range c.ShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}

// AddShop links a shop to the category. Shops are never unlinked by imports.
func (c *Category) AddShop(shopID uuid.UUID) bool {
	if c.HasShop(shopID) {
		return false
	}
	c.ShopIDs = append(c.ShopIDs, shopID)
	return true
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 40 {
		return shared.NewDomainError(shared.CodeValidation, "Category name cannot exceed 40 characters")
	}
	return nil
}
