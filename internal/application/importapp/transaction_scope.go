package importapp

import (
	"context"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories an import touches.
// Every repository handed to fn shares one database transaction, committed when fn
// returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the import repositories within a transaction.
//
// OrderRepo is only used to drop basket lines that point at retired listings.
type TransactionalRepositories interface {
	ShopRepo() catalog.ShopRepository
	CategoryRepo() catalog.CategoryRepository
	ProductRepo() catalog.ProductRepository
	ParameterRepo() catalog.ParameterRepository
	ListingRepo() catalog.ListingRepository
	OrderRepo() trade.OrderRepository
}

// NoOpTransactionScope runs the function against plain repositories without a transaction.
// This is useful for testing.
type NoOpTransactionScope struct {
	shopRepo      catalog.ShopRepository
	categoryRepo  catalog.CategoryRepository
	productRepo   catalog.ProductRepository
	parameterRepo catalog.ParameterRepository
	listingRepo   catalog.ListingRepository
	orderRepo     trade.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	shopRepo catalog.ShopRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	parameterRepo catalog.ParameterRepository,
	listingRepo catalog.ListingRepository,
	orderRepo trade.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		shopRepo:      shopRepo,
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		parameterRepo: parameterRepo,
		listingRepo:   listingRepo,
		orderRepo:     orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ShopRepo() catalog.ShopRepository           { return s.shopRepo }
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository   { return s.categoryRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository     { return s.productRepo }
func (s *NoOpTransactionScope) ParameterRepo() catalog.ParameterRepository { return s.parameterRepo }
func (s *NoOpTransactionScope) ListingRepo() catalog.ListingRepository     { return s.listingRepo }
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository           { return s.orderRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
