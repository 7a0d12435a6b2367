package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lineDetailsColumns = `order_lines.order_id, order_lines.id AS line_id,
	order_lines.listing_id, order_lines.quantity,
	products.name AS product_name, categories.name AS category_name,
	listings.model, listings.shop_id, shops.name AS shop_name, listings.price,
	listings.deleted_at IS NOT NULL AS listing_retired`

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("order_lines.created_at ASC, order_lines.id ASC")
}

// FindByID finds an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBasket finds the basket order of an account
func (r *GormOrderRepository) FindBasket(ctx context.Context, accountID uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("account_id = ? AND status = ?", accountID, trade.OrderStatusBasket).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CreateBasket inserts an empty basket. The one-basket index makes a concurrent
// insert for the same account fail with shared.ErrAlreadyExists.
func (r *GormOrderRepository) CreateBasket(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(models.OrderModelFromDomain(order)).Error)
}

// Save writes the order row and upserts order.Lines in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(models.OrderModelFromDomain(order)).Error; err != nil {
			return translateError(err)
		}
		return upsertLines(tx, order.ID, order.Lines)
	})
}

// SaveLines upserts the touched lines of an order. Concurrent edits of different
// listings both survive; the same listing is last write wins.
func (r *GormOrderRepository) SaveLines(ctx context.Context, orderID uuid.UUID, lines []trade.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return upsertLines(r.db.WithContext(ctx), orderID, lines)
}

// DeleteLines removes the lines of the listings from one order
func (r *GormOrderRepository) DeleteLines(ctx context.Context, orderID uuid.UUID, listingIDs []uuid.UUID) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND listing_id IN ?", orderID, listingIDs).
		Delete(&models.OrderLineModel{})
	return result.RowsAffected, result.Error
}

func upsertLines(db *gorm.DB, orderID uuid.UUID, lines []trade.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]*models.OrderLineModel, len(lines))
	for i := range lines {
		lines[i].OrderID = orderID
		rows[i] = models.OrderLineModelFromDomain(lines[i])
	}
	return translateError(db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "listing_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&rows).Error)
}

// Find lists orders with their lines, newest first unless the filter says otherwise
func (r *GormOrderRepository) Find(ctx context.Context, query trade.OrderQuery) ([]trade.Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if query.AccountID != nil {
		db = db.Where("account_id = ?", *query.AccountID)
	}
	if query.Status != nil {
		db = db.Where("status = ?", *query.Status)
	}
	if query.PlacedOnly {
		db = db.Where("status <> ?", trade.OrderStatusBasket)
	}
	if query.ShopID != nil {
		db = db.Where("id IN (?)", r.db.
			Table("order_lines").
			Select("order_lines.order_id").
			Joins("JOIN listings ON listings.id = order_lines.listing_id").
			Where("listings.shop_id = ?", *query.ShopID))
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := db.Preload("Lines", preloadLines).
		Order(sortClause(query.Filter, OrderSortFields, "created_at")).
		Offset(query.Filter.Offset()).
		Limit(query.Filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, total, nil
}

// LineDetails loads the display data of the lines of several orders. Retired listings
// still resolve so placed orders keep showing what was bought.
func (r *GormOrderRepository) LineDetails(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]trade.LineDetails, error) {
	details := make(map[uuid.UUID][]trade.LineDetails, len(orderIDs))
	if len(orderIDs) == 0 {
		return details, nil
	}

	var rows []models.LineDetailsRow
	if err := r.db.WithContext(ctx).
		Table("order_lines").
		Select(lineDetailsColumns).
		Joins("JOIN listings ON listings.id = order_lines.listing_id").
		Joins("JOIN products ON products.id = listings.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN shops ON shops.id = listings.shop_id").
		Where("order_lines.order_id IN ?", orderIDs).
		Order("order_lines.created_at ASC, order_lines.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		details[rows[i].OrderID] = append(details[rows[i].OrderID], rows[i].ToDomain())
	}
	return details, nil
}

// DeleteBasketLinesForListings removes basket lines that point at the listings.
// Lines of placed orders are kept.
func (r *GormOrderRepository) DeleteBasketLinesForListings(ctx context.Context, listingIDs []uuid.UUID) (int64, error) {
	if len(listingIDs) == 0 {
		return 0, nil
	}
	baskets := r.db.Model(&models.OrderModel{}).Select("id").Where("status = ?", trade.OrderStatusBasket)
	result := r.db.WithContext(ctx).
		Where("listing_id IN ? AND order_id IN (?)", listingIDs, baskets).
		Delete(&models.OrderLineModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormOrderRepository implements trade.OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
