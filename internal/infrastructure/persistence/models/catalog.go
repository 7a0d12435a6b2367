package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShopModel is the persistence model for the Shop aggregate root.
type ShopModel struct {
	AggregateModel
	Name            string     `gorm:"type:varchar(50);not null;index"`
	URL             string     `gorm:"type:varchar(500)"`
	OwnerID         *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	AcceptingOrders bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop.
func (m *ShopModel) ToDomain() *catalog.Shop {
	shop := &catalog.Shop{
		Name:            m.Name,
		URL:             m.URL,
		OwnerID:         m.OwnerID,
		AcceptingOrders: m.AcceptingOrders,
	}
	m.PopulateAggregateRoot(&shop.BaseAggregateRoot)
	return shop
}

// FromDomain populates the persistence model from a domain Shop.
func (m *ShopModel) FromDomain(s *catalog.Shop) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.URL = s.URL
	m.OwnerID = s.OwnerID
	m.AcceptingOrders = s.AcceptingOrders
}

// ShopModelFromDomain creates a ShopModel from a domain Shop
func ShopModelFromDomain(s *catalog.Shop) *ShopModel {
	m := &ShopModel{}
	m.FromDomain(s)
	return m
}

// CategoryModel is the persistence model for categories. Shop links live in category_shops.
type CategoryModel struct {
	BaseModel
	ExternalID int64  `gorm:"not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model and its shop links to a domain Category.
func (m *CategoryModel) ToDomain(shopIDs []uuid.UUID) *catalog.Category {
	if shopIDs == nil {
		shopIDs = make([]uuid.UUID, 0)
	}
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		ExternalID: m.ExternalID,
		Name:       m.Name,
		ShopIDs:    shopIDs,
	}
}

// CategoryModelFromDomain creates a CategoryModel from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{ExternalID: c.ExternalID, Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// CategoryShopModel links a category to a shop that lists it.
type CategoryShopModel struct {
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (CategoryShopModel) TableName() string {
	return "category_shops"
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	BaseModel
	Name       string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_products_name_category,priority:1"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_name_category,priority:2;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		CategoryID: m.CategoryID,
	}
}

// ProductModelFromDomain creates a ProductModel from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{Name: p.Name, CategoryID: p.CategoryID}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ParameterModel is the persistence model for the global parameter names.
type ParameterModel struct {
	BaseModel
	Name string `gorm:"type:varchar(40);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ParameterModel) TableName() string {
	return "parameters"
}

// ToDomain converts the persistence model to a domain Parameter.
func (m *ParameterModel) ToDomain() *catalog.Parameter {
	return &catalog.Parameter{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// ParameterModelFromDomain creates a ParameterModel from a domain Parameter
func ParameterModelFromDomain(p *catalog.Parameter) *ParameterModel {
	m := &ParameterModel{Name: p.Name}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ListingModel is the persistence model for listings. A retired listing is soft deleted;
// the unique key spans retired rows so a returning good revives its old row.
type ListingModel struct {
	BaseModel
	ProductID        uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_listings_product_shop_external,priority:1"`
	ShopID           uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_listings_product_shop_external,priority:2;index"`
	ExternalID       int64                   `gorm:"not null;uniqueIndex:idx_listings_product_shop_external,priority:3"`
	Model            string                  `gorm:"type:varchar(80)"`
	Quantity         int                     `gorm:"not null;default:0"`
	Price            decimal.Decimal         `gorm:"type:decimal(12,2);not null;default:0"`
	RecommendedPrice decimal.Decimal         `gorm:"type:decimal(12,2);not null;default:0"`
	DeletedAt        gorm.DeletedAt          `gorm:"index"`
	Parameters       []ListingParameterModel `gorm:"foreignKey:ListingID;references:ID"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing. names maps parameter IDs
// to their names; values whose parameter is missing from it keep an empty name.
func (m *ListingModel) ToDomain(names map[uuid.UUID]string) *catalog.Listing {
	listing := &catalog.Listing{
		BaseEntity:       m.BaseModel.ToDomain(),
		ProductID:        m.ProductID,
		ShopID:           m.ShopID,
		ExternalID:       m.ExternalID,
		Model:            m.Model,
		Quantity:         m.Quantity,
		Price:            m.Price,
		RecommendedPrice: m.RecommendedPrice,
		Parameters:       make([]catalog.ListingParameter, 0, len(m.Parameters)),
	}
	if m.DeletedAt.Valid {
		retired := m.DeletedAt.Time
		listing.RetiredAt = &retired
	}
	for _, p := range m.Parameters {
		listing.Parameters = append(listing.Parameters, catalog.ListingParameter{
			ParameterID: p.ParameterID,
			Name:        names[p.ParameterID],
			Value:       p.Value,
		})
	}
	sort.Slice(listing.Parameters, func(i, j int) bool {
		return listing.Parameters[i].Name < listing.Parameters[j].Name
	})
	return listing
}

// ListingModelFromDomain creates a ListingModel, parameter values included, from a domain Listing
func ListingModelFromDomain(l *catalog.Listing) *ListingModel {
	m := &ListingModel{
		ProductID:        l.ProductID,
		ShopID:           l.ShopID,
		ExternalID:       l.ExternalID,
		Model:            l.Model,
		Quantity:         l.Quantity,
		Price:            l.Price,
		RecommendedPrice: l.RecommendedPrice,
		Parameters:       make([]ListingParameterModel, 0, len(l.Parameters)),
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	if l.RetiredAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *l.RetiredAt, Valid: true}
	}
	for _, p := range l.Parameters {
		m.Parameters = append(m.Parameters, ListingParameterModel{
			ListingID:   l.ID,
			ParameterID: p.ParameterID,
			Value:       p.Value,
		})
	}
	return m
}

// ListingParameterModel stores the value of one parameter on one listing.
type ListingParameterModel struct {
	ListingID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParameterID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Value       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ListingParameterModel) TableName() string {
	return "listing_parameters"
}

// ListingViewRow is the scan target of the catalog browse join.
type ListingViewRow struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ProductID        uuid.UUID
	ShopID           uuid.UUID
	ExternalID       int64
	Model            string
	Quantity         int
	Price            decimal.Decimal
	RecommendedPrice decimal.Decimal
	ProductName      string
	CategoryID       uuid.UUID
	CategoryName     string
	ShopName         string
	AcceptingOrders  bool
}

// ToDomain converts the row to a ListingView; parameter values are attached by the caller.
func (r *ListingViewRow) ToDomain() catalog.ListingView {
	return catalog.ListingView{
		Listing: catalog.Listing{
			BaseEntity: shared.BaseEntity{
				ID:        r.ID,
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			},
			ProductID:        r.ProductID,
			ShopID:           r.ShopID,
			ExternalID:       r.ExternalID,
			Model:            r.Model,
			Quantity:         r.Quantity,
			Price:            r.Price,
			RecommendedPrice: r.RecommendedPrice,
			Parameters:       make([]catalog.ListingParameter, 0),
		},
		ProductName:     r.ProductName,
		CategoryID:      r.CategoryID,
		CategoryName:    r.CategoryName,
		ShopName:        r.ShopName,
		AcceptingOrders: r.AcceptingOrders,
	}
}
