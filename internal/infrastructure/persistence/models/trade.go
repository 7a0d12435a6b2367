package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root. An account has at
// most one row in status basket.
type OrderModel struct {
	AggregateModel
	AccountID uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_one_basket,where:status = 'basket'"`
	Status    trade.OrderStatus `gorm:"type:varchar(15);not null;default:'basket';index"`
	ContactID *uuid.UUID        `gorm:"type:uuid"`
	PlacedAt  *time.Time        `gorm:"index"`
	Lines     []OrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model and its loaded lines to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		AccountID: m.AccountID,
		Status:    m.Status,
		ContactID: m.ContactID,
		PlacedAt:  m.PlacedAt,
		Lines:     make([]trade.OrderLine, 0, len(m.Lines)),
	}
	m.PopulateAggregateRoot(&order.BaseAggregateRoot)
	for _, l := range m.Lines {
		order.Lines = append(order.Lines, l.ToDomain())
	}
	return order
}

// OrderModelFromDomain creates an OrderModel from a domain Order. Lines are not copied;
// the repository upserts them separately.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		AccountID: o.AccountID,
		Status:    o.Status,
		ContactID: o.ContactID,
		PlacedAt:  o.PlacedAt,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// OrderLineModel is the persistence model for order lines.
type OrderLineModel struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_listing,priority:1"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_listing,priority:2;index"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() trade.OrderLine {
	return trade.OrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ListingID: m.ListingID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// OrderLineModelFromDomain creates an OrderLineModel from a domain OrderLine
func OrderLineModelFromDomain(l trade.OrderLine) *OrderLineModel {
	return &OrderLineModel{
		BaseModel: BaseModel{ID: l.ID, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt},
		OrderID:   l.OrderID,
		ListingID: l.ListingID,
		Quantity:  l.Quantity,
	}
}

// LineDetailsRow is the scan target of the order line display join.
type LineDetailsRow struct {
	OrderID        uuid.UUID
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

// ToDomain converts the row to trade.LineDetails
func (r *LineDetailsRow) ToDomain() trade.LineDetails {
	return trade.LineDetails{
		LineID:         r.LineID,
		ListingID:      r.ListingID,
		Quantity:       r.Quantity,
		ProductName:    r.ProductName,
		CategoryName:   r.CategoryName,
		Model:          r.Model,
		ShopID:         r.ShopID,
		ShopName:       r.ShopName,
		Price:          r.Price,
		ListingRetired: r.ListingRetired,
	}
}
