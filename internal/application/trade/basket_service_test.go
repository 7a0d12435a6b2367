package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeListing(t *testing.T) catalog.Listing {
	t.Helper()
	l, err := catalog.NewListing(uuid.New(), uuid.New(), 1, catalog.Offer{Model: "m", Quantity: 5, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	return *l
}

func newBasketFixture() (*BasketService, *testutil.MockOrderRepository, *testutil.MockListingRepository) {
	orders := new(testutil.MockOrderRepository)
	listings := new(testutil.MockListingRepository)
	return NewBasketService(orders, listings, nil), orders, listings
}

func linesFor(ids ...uuid.UUID) interface{} {
	return mock.MatchedBy(func(lines []trade.OrderLine) bool {
		if len(lines) != len(ids) {
			return false
		}
		for i, l := range lines {
			if l.ListingID != ids[i] {
				return false
			}
		}
		return true
	})
}

func TestBasketService_AddOrUpdateItems(t *testing.T) {
	t.Run("partial success", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		good := activeListing(t)
		retired := uuid.New()

		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		listings.On("FindByIDs", mock.Anything, []uuid.UUID{good.ID, retired, good.ID}).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, basket.ID, linesFor(good.ID)).Return(nil)

		result, err := svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{
			{ListingID: good.ID.String(), Quantity: 2},
			{ListingID: retired.String(), Quantity: 1},
			{ListingID: good.ID.String(), Quantity: 0},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Applied)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, 1, result.Errors[0].Index)
		assert.Equal(t, shared.CodeValidation, result.Errors[0].Code)
		assert.Equal(t, retired.String(), result.Errors[0].ListingID)
		assert.Equal(t, 2, result.Errors[1].Index)
		assert.Equal(t, shared.CodeValidation, result.Errors[1].Code)
		require.NotNil(t, basket.Line(good.ID))
		assert.Equal(t, 2, basket.Line(good.ID).Quantity)
		orders.AssertExpectations(t)
	})

	t.Run("malformed listing ids are reported per entry", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		good := activeListing(t)

		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		listings.On("FindByIDs", mock.Anything, []uuid.UUID{good.ID, good.ID}).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, basket.ID, linesFor(good.ID)).Return(nil)

		result, err := svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{
			{ListingID: good.ID.String(), Quantity: 0},
			{ListingID: "", Quantity: 3},
			{ListingID: good.ID.String(), Quantity: 2},
			{ListingID: "not-a-uuid", Quantity: 1},
			{ListingID: uuid.Nil.String(), Quantity: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Applied)
		require.Len(t, result.Errors, 4)
		for i, want := range []int{0, 1, 3, 4} {
			assert.Equal(t, want, result.Errors[i].Index)
			assert.Equal(t, shared.CodeValidation, result.Errors[i].Code)
		}
		assert.Equal(t, "Quantity must be at least 1", result.Errors[0].Message)
		assert.Equal(t, "not-a-uuid", result.Errors[2].ListingID)
		orders.AssertExpectations(t)
	})

	t.Run("only malformed ids leaves storage untouched", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()

		result, err := svc.AddOrUpdateItems(context.Background(), uuid.New(), []BasketItem{{ListingID: "x", Quantity: 1}})

		require.NoError(t, err)
		assert.Zero(t, result.Applied)
		assert.Len(t, result.Errors, 1)
		orders.AssertNotCalled(t, "FindBasket", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "CreateBasket", mock.Anything, mock.Anything)
		listings.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("writes only the touched lines", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		good := activeListing(t)
		untouched := uuid.New()
		_, err = basket.SetLine(untouched, 4)
		require.NoError(t, err)
		_, err = basket.SetLine(good.ID, 7)
		require.NoError(t, err)

		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		listings.On("FindByIDs", mock.Anything, []uuid.UUID{good.ID}).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, basket.ID, linesFor(good.ID)).Return(nil)

		result, err := svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{{ListingID: good.ID.String(), Quantity: 3}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Applied)
		assert.Len(t, basket.Lines, 2)
		assert.Equal(t, 3, basket.Line(good.ID).Quantity)
		orders.AssertExpectations(t)
		orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("nothing valid is not saved", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)

		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		listings.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Listing{}, nil)

		result, err := svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{{ListingID: uuid.NewString(), Quantity: 1}})

		require.NoError(t, err)
		assert.Zero(t, result.Applied)
		assert.Len(t, result.Errors, 1)
		orders.AssertNotCalled(t, "SaveLines", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates the basket", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		good := activeListing(t)

		orders.On("FindBasket", mock.Anything, accountID).Return(nil, shared.ErrNotFound)
		orders.On("CreateBasket", mock.Anything, mock.MatchedBy(func(o *trade.Order) bool {
			return o.AccountID == accountID && o.IsBasket()
		})).Return(nil)
		listings.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, mock.Anything, linesFor(good.ID)).Return(nil)

		result, err := svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{{ListingID: good.ID.String(), Quantity: 1}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Applied)
		orders.AssertExpectations(t)
	})

	t.Run("concurrent basket creation reloads", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		winner, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		good := activeListing(t)

		orders.On("FindBasket", mock.Anything, accountID).Return(nil, shared.ErrNotFound).Once()
		orders.On("CreateBasket", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
		orders.On("FindBasket", mock.Anything, accountID).Return(winner, nil).Once()
		listings.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, winner.ID, linesFor(good.ID)).Return(nil)

		_, err = svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{{ListingID: good.ID.String(), Quantity: 1}})

		require.NoError(t, err)
		assert.NotNil(t, winner.Line(good.ID))
		orders.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, orders, listings := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		good := activeListing(t)

		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		listings.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Listing{good}, nil)
		orders.On("SaveLines", mock.Anything, basket.ID, mock.Anything).Return(errors.New("db down"))

		_, err = svc.AddOrUpdateItems(context.Background(), accountID, []BasketItem{{ListingID: good.ID.String(), Quantity: 1}})

		assert.Error(t, err)
	})
}

func TestBasketService_RemoveItems(t *testing.T) {
	t.Run("no basket", func(t *testing.T) {
		svc, orders, _ := newBasketFixture()
		accountID := uuid.New()
		orders.On("FindBasket", mock.Anything, accountID).Return(nil, shared.ErrNotFound)

		removed, err := svc.RemoveItems(context.Background(), accountID, []uuid.UUID{uuid.New()})

		require.NoError(t, err)
		assert.Zero(t, removed)
		orders.AssertNotCalled(t, "DeleteLines", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reports stored deletions", func(t *testing.T) {
		svc, orders, _ := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		drop, unknown := uuid.New(), uuid.New()
		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		orders.On("DeleteLines", mock.Anything, basket.ID, []uuid.UUID{drop, unknown}).Return(int64(1), nil)

		removed, err := svc.RemoveItems(context.Background(), accountID, []uuid.UUID{drop, unknown})

		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		orders.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, orders, _ := newBasketFixture()
		accountID := uuid.New()
		orders.On("FindBasket", mock.Anything, accountID).Return(nil, errors.New("db down"))

		_, err := svc.RemoveItems(context.Background(), accountID, []uuid.UUID{uuid.New()})

		assert.Error(t, err)
	})
}

func TestBasketService_GetBasket(t *testing.T) {
	t.Run("no basket", func(t *testing.T) {
		svc, orders, _ := newBasketFixture()
		accountID := uuid.New()
		orders.On("FindBasket", mock.Anything, accountID).Return(nil, shared.ErrNotFound)

		basket, err := svc.GetBasket(context.Background(), accountID)

		require.NoError(t, err)
		assert.Nil(t, basket)
	})

	t.Run("total is recomputed from listing prices", func(t *testing.T) {
		svc, orders, _ := newBasketFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		orders.On("LineDetails", mock.Anything, []uuid.UUID{basket.ID}).Return(map[uuid.UUID][]trade.LineDetails{
			basket.ID: {
				{LineID: uuid.New(), ListingID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("19.99"), ShopName: "A"},
				{LineID: uuid.New(), ListingID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(5), ShopName: "B"},
			},
		}, nil)

		resp, err := svc.GetBasket(context.Background(), accountID)

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "basket", resp.Status)
		assert.Len(t, resp.Lines, 2)
		assert.True(t, resp.Total.Equal(decimal.RequireFromString("44.98")), resp.Total.String())
		assert.True(t, resp.Lines[0].Sum.Equal(decimal.RequireFromString("39.98")))
	})
}
