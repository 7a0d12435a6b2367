package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Product is a named good inside one category; (name, category) is unique
type Product struct {
	shared.BaseEntity
	Name       string
	CategoryID uuid.UUID
}

// NewProduct creates a product
func NewProduct(name string, categoryID uuid.UUID) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 80 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product name cannot exceed 80 characters")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product category is required")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}

// Parameter is a global attribute name such as "color"
type Parameter struct {
	shared.BaseEntity
	Name string
}

// NewParameter creates a parameter
func NewParameter(name string) (*Parameter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Parameter name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 40 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Parameter name cannot exceed 40 characters")
	}
	return &Parameter{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}
