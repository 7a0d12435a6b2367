package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShopRepository implements catalog.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by its ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByOwner finds the shop owned by an account
func (r *GormShopRepository) FindByOwner(ctx context.Context, accountID uuid.UUID) (*catalog.Shop, error) {
	return r.first(ctx, "owner_id = ?", accountID)
}

// FindByNameAndOwner finds a shop by name among the shops of an account
func (r *GormShopRepository) FindByNameAndOwner(ctx context.Context, name string, accountID uuid.UUID) (*catalog.Shop, error) {
	return r.first(ctx, "name = ? AND owner_id = ?", name, accountID)
}

func (r *GormShopRepository) first(ctx context.Context, query string, args ...any) (*catalog.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists shops page by page
func (r *GormShopRepository) FindAll(ctx context.Context, filter shared.Filter, acceptingOnly bool) ([]catalog.Shop, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShopModel{})
	if acceptingOnly {
		query = query.Where("accepting_orders = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ShopModel
	if err := query.Order(sortClause(filter, ShopSortFields, "name")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	shops := make([]catalog.Shop, 0, len(rows))
	for i := range rows {
		shops = append(shops, *rows[i].ToDomain())
	}
	return shops, total, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	return translateError(r.db.WithContext(ctx).Save(models.ShopModelFromDomain(shop)).Error)
}

// Ensure GormShopRepository implements catalog.ShopRepository
var _ catalog.ShopRepository = (*GormShopRepository)(nil)
