package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const listingViewColumns = `listings.id, listings.created_at, listings.updated_at,
	listings.product_id, listings.shop_id, listings.external_id, listings.model,
	listings.quantity, listings.price, listings.recommended_price,
	products.name AS product_name, products.category_id AS category_id,
	categories.name AS category_name, shops.name AS shop_name,
	shops.accepting_orders AS accepting_orders`

// GormListingRepository implements catalog.ListingRepository using GORM.
// Retired listings are soft deleted rows; default scopes hide them.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds an active listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).Preload("Parameters").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	names, err := r.parameterNames(ctx, []models.ListingModel{model})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(names), nil
}

// FindByIDs returns the active listings among ids
func (r *GormListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Listing, error) {
	if len(ids) == 0 {
		return []catalog.Listing{}, nil
	}
	return r.find(ctx, r.db.WithContext(ctx).Where("id IN ?", ids))
}

// FindByShop returns every listing of a shop, retired ones included
func (r *GormListingRepository) FindByShop(ctx context.Context, shopID uuid.UUID) ([]catalog.Listing, error) {
	return r.find(ctx, r.db.WithContext(ctx).Unscoped().Where("shop_id = ?", shopID).Order("external_id"))
}

func (r *GormListingRepository) find(ctx context.Context, query *gorm.DB) ([]catalog.Listing, error) {
	var rows []models.ListingModel
	if err := query.Preload("Parameters").Find(&rows).Error; err != nil {
		return nil, err
	}
	names, err := r.parameterNames(ctx, rows)
	if err != nil {
		return nil, err
	}
	listings := make([]catalog.Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, *rows[i].ToDomain(names))
	}
	return listings, nil
}

// Save upserts the listing row, retired or not, and replaces its parameter values
func (r *GormListingRepository) Save(ctx context.Context, listing *catalog.Listing) error {
	model := models.ListingModelFromDomain(listing)
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Omit(clause.Associations).Save(model).Error; err != nil {
		return translateError(err)
	}
	if err := db.Where("listing_id = ?", listing.ID).Delete(&models.ListingParameterModel{}).Error; err != nil {
		return err
	}
	if len(model.Parameters) == 0 {
		return nil
	}
	return translateError(db.Create(&model.Parameters).Error)
}

// Retire soft deletes the listings
func (r *GormListingRepository) Retire(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ListingModel{}).Error
}

// Search lists active listings of shops that accept orders
func (r *GormListingRepository) Search(ctx context.Context, query catalog.ListingQuery) ([]catalog.ListingView, int64, error) {
	base := r.viewQuery(ctx).Where("shops.accepting_orders = ?", true)
	if query.ShopID != nil {
		base = base.Where("listings.shop_id = ?", *query.ShopID)
	}
	if query.CategoryID != nil {
		base = base.Where("products.category_id = ?", *query.CategoryID)
	}
	if term := strings.TrimSpace(query.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		base = base.Where("(LOWER(products.name) LIKE ? OR LOWER(listings.model) LIKE ?)", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ListingViewRow
	if err := base.Select(listingViewColumns).
		Order(listingSortClause(query.Filter)).
		Offset(query.Filter.Offset()).
		Limit(query.Filter.Limit()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	views, err := r.attachParameters(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// FindView returns one active listing with its display fields
func (r *GormListingRepository) FindView(ctx context.Context, id uuid.UUID) (*catalog.ListingView, error) {
	var rows []models.ListingViewRow
	if err := r.viewQuery(ctx).
		Select(listingViewColumns).
		Where("listings.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound)
	}
	views, err := r.attachParameters(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *GormListingRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("listings").
		Joins("JOIN products ON products.id = listings.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN shops ON shops.id = listings.shop_id").
		Where("listings.deleted_at IS NULL")
}

type parameterValueRow struct {
	ListingID   uuid.UUID
	ParameterID uuid.UUID
	Name        string
	Value       string
}

func (r *GormListingRepository) attachParameters(ctx context.Context, rows []models.ListingViewRow) ([]catalog.ListingView, error) {
	views := make([]catalog.ListingView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var values []parameterValueRow
	if err := r.db.WithContext(ctx).
		Table("listing_parameters").
		Select("listing_parameters.listing_id, listing_parameters.parameter_id, parameters.name, listing_parameters.value").
		Joins("JOIN parameters ON parameters.id = listing_parameters.parameter_id").
		Where("listing_parameters.listing_id IN ?", ids).
		Order("parameters.name").
		Scan(&values).Error; err != nil {
		return nil, err
	}
	byListing := make(map[uuid.UUID][]catalog.ListingParameter, len(rows))
	for _, v := range values {
		byListing[v.ListingID] = append(byListing[v.ListingID], catalog.ListingParameter{
			ParameterID: v.ParameterID,
			Name:        v.Name,
			Value:       v.Value,
		})
	}

	for i := range rows {
		view := rows[i].ToDomain()
		if params, ok := byListing[view.ID]; ok {
			view.Parameters = params
		}
		views = append(views, view)
	}
	return views, nil
}

// parameterNames resolves the parameter names used by the loaded listings
func (r *GormListingRepository) parameterNames(ctx context.Context, rows []models.ListingModel) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0)
	for _, row := range rows {
		for _, p := range row.Parameters {
			ids = append(ids, p.ParameterID)
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var params []models.ParameterModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&params).Error; err != nil {
		return nil, err
	}
	for _, p := range params {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Ensure GormListingRepository implements catalog.ListingRepository
var _ catalog.ListingRepository = (*GormListingRepository)(nil)
