package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByExternalID finds a category by the id vendors use in their feeds
func (r *GormCategoryRepository) FindByExternalID(ctx context.Context, externalID int64) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	links, err := r.shopLinks(ctx, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(links[model.ID]), nil
}

// FindAll lists categories page by page
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CategoryModel
	if err := query.Order(sortClause(filter, CategorySortFields, "name")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []catalog.Category{}, total, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	links, err := r.shopLinks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	categories := make([]catalog.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].ToDomain(links[rows[i].ID]))
	}
	return categories, total, nil
}

// Save upserts the category and adds shop links that are not stored yet. Links are
// never removed here.
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	db := r.db.WithContext(ctx)
	if err := db.Save(models.CategoryModelFromDomain(category)).Error; err != nil {
		return translateError(err)
	}
	if len(category.ShopIDs) == 0 {
		return nil
	}
	links := make([]models.CategoryShopModel, 0, len(category.ShopIDs))
	for _, shopID := range category.ShopIDs {
		links = append(links, models.CategoryShopModel{CategoryID: category.ID, ShopID: shopID})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *GormCategoryRepository) shopLinks(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	var rows []models.CategoryShopModel
	if err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("shop_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	links := make(map[uuid.UUID][]uuid.UUID, len(categoryIDs))
	for _, row := range rows {
		links[row.CategoryID] = append(links[row.CategoryID], row.ShopID)
	}
	return links, nil
}

// Ensure GormCategoryRepository implements catalog.CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
