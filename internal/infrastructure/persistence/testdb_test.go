package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory SQLite database. A single connection keeps
// every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockGormDB wraps sqlmock in a postgres dialector for SQL shape assertions
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

// catalogFixture seeds one shop with one category, product and listing
type catalogFixture struct {
	shop     *catalog.Shop
	category *catalog.Category
	product  *catalog.Product
	color    *catalog.Parameter
	listing  *catalog.Listing
}

func seedCatalog(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *catalogFixture {
	t.Helper()
	ctx := context.Background()

	shop, err := catalog.NewShop("Gadget Store", &ownerID)
	require.NoError(t, err)
	require.NoError(t, NewGormShopRepository(db).Save(ctx, shop))

	category, err := catalog.NewCategory(224, "Smartphones")
	require.NoError(t, err)
	category.AddShop(shop.ID)
	require.NoError(t, NewGormCategoryRepository(db).Save(ctx, category))

	product, err := catalog.NewProduct("Smartphone Apple iPhone XS Max 512GB (gold)", category.ID)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, product))

	color, err := catalog.NewParameter("Color")
	require.NoError(t, err)
	require.NoError(t, NewGormParameterRepository(db).Save(ctx, color))

	listing, err := catalog.NewListing(product.ID, shop.ID, 4216292, catalog.Offer{
		Model:            "apple/iphone/xs-max",
		Quantity:         14,
		Price:            decimal.NewFromInt(110000),
		RecommendedPrice: decimal.NewFromInt(116990),
	})
	require.NoError(t, err)
	listing.SetParameters([]catalog.ListingParameter{{ParameterID: color.ID, Name: color.Name, Value: "gold"}})
	require.NoError(t, NewGormListingRepository(db).Save(ctx, listing))

	return &catalogFixture{shop: shop, category: category, product: product, color: color, listing: listing}
}
