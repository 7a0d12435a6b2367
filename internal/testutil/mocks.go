package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockShopRepository is a mock implementation of catalog.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByOwner(ctx context.Context, accountID uuid.UUID) (*catalog.Shop, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByNameAndOwner(ctx context.Context, name string, accountID uuid.UUID) (*catalog.Shop, error) {
	args := m.Called(ctx, name, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) FindAll(ctx context.Context, filter shared.Filter, acceptingOnly bool) ([]catalog.Shop, int64, error) {
	args := m.Called(ctx, filter, acceptingOnly)
	return args.Get(0).([]catalog.Shop), args.Get(1).(int64), args.Error(2)
}

func (m *MockShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	return m.Called(ctx, shop).Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByExternalID(ctx context.Context, externalID int64) (*catalog.Category, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, name, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

// MockParameterRepository is a mock implementation of catalog.ParameterRepository
type MockParameterRepository struct {
	mock.Mock
}

func (m *MockParameterRepository) FindByName(ctx context.Context, name string) (*catalog.Parameter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Parameter), args.Error(1)
}

func (m *MockParameterRepository) Save(ctx context.Context, parameter *catalog.Parameter) error {
	return m.Called(ctx, parameter).Error(0)
}

// MockListingRepository is a mock implementation of catalog.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Listing, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByShop(ctx context.Context, shopID uuid.UUID) ([]catalog.Listing, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).([]catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, listing *catalog.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) Retire(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockListingRepository) Search(ctx context.Context, query catalog.ListingQuery) ([]catalog.ListingView, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]catalog.ListingView), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindView(ctx context.Context, id uuid.UUID) (*catalog.ListingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ListingView), args.Error(1)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBasket(ctx context.Context, accountID uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) CreateBasket(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveLines(ctx context.Context, orderID uuid.UUID, lines []trade.OrderLine) error {
	return m.Called(ctx, orderID, lines).Error(0)
}

func (m *MockOrderRepository) DeleteLines(ctx context.Context, orderID uuid.UUID, listingIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID, listingIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, query trade.OrderQuery) ([]trade.Order, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) LineDetails(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]trade.LineDetails, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]trade.LineDetails), args.Error(1)
}

func (m *MockOrderRepository) DeleteBasketLinesForListings(ctx context.Context, listingIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, listingIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccountRepository is a mock implementation of identity.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockContactRepository is a mock implementation of identity.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Save(ctx context.Context, contact *identity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]identity.Contact, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]identity.Contact), args.Error(1)
}

func (m *MockContactRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) DeleteForAccount(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenRepository is a mock implementation of identity.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetOrCreate(ctx context.Context, candidate *identity.ConfirmationToken) (*identity.ConfirmationToken, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.ConfirmationToken), args.Error(1)
}

func (m *MockTokenRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, purpose identity.TokenPurpose) (*identity.ConfirmationToken, error) {
	args := m.Called(ctx, accountID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.ConfirmationToken), args.Error(1)
}

func (m *MockTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ catalog.ShopRepository       = (*MockShopRepository)(nil)
	_ catalog.CategoryRepository   = (*MockCategoryRepository)(nil)
	_ catalog.ProductRepository    = (*MockProductRepository)(nil)
	_ catalog.ParameterRepository  = (*MockParameterRepository)(nil)
	_ catalog.ListingRepository    = (*MockListingRepository)(nil)
	_ trade.OrderRepository        = (*MockOrderRepository)(nil)
	_ identity.AccountRepository   = (*MockAccountRepository)(nil)
	_ identity.ContactRepository   = (*MockContactRepository)(nil)
	_ identity.TokenRepository     = (*MockTokenRepository)(nil)
)
