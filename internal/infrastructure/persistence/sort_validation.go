package persistence

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// sortClause builds a safe ORDER BY clause. An empty or rejected field falls back to
// defaultField in ascending order so that unsorted listings read alphabetically.
func sortClause(f shared.Filter, allowedFields map[string]bool, defaultField string) string {
	field := ValidateSortField(f.OrderBy, allowedFields, "")
	if field == "" {
		return defaultField + " ASC"
	}
	return field + " " + ValidateSortOrder(f.OrderDir)
}

// ShopSortFields contains allowed sort fields for shops
var ShopSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"external_id": true,
	"name":        true,
}

// ListingSortColumns maps the public listing sort keys to columns of the browse join
var ListingSortColumns = map[string]string{
	"id":                "listings.id",
	"created_at":        "listings.created_at",
	"updated_at":        "listings.updated_at",
	"price":             "listings.price",
	"recommended_price": "listings.recommended_price",
	"quantity":          "listings.quantity",
	"model":             "listings.model",
	"name":              "products.name",
	"product_name":      "products.name",
	"shop":              "shops.name",
	"category":          "categories.name",
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"placed_at":  true,
	"status":     true,
}

// listingSortClause resolves a listing sort key to its joined column
func listingSortClause(f shared.Filter) string {
	column, ok := ListingSortColumns[strings.TrimSpace(f.OrderBy)]
	if !ok {
		return "products.name ASC, listings.id ASC"
	}
	return column + " " + ValidateSortOrder(f.OrderDir) + ", listings.id ASC"
}
