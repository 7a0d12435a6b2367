package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *testutil.MockOrderRepository
	contacts  *testutil.MockContactRepository
	shops     *testutil.MockShopRepository
	publisher *testutil.RecordingPublisher
	service   *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    new(testutil.MockOrderRepository),
		contacts:  new(testutil.MockContactRepository),
		shops:     new(testutil.MockShopRepository),
		publisher: testutil.NewRecordingPublisher(),
	}
	f.service = NewOrderService(f.orders, f.contacts, f.shops, nil)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newContact(t *testing.T, accountID uuid.UUID) *identity.Contact {
	t.Helper()
	c, err := identity.NewContact(accountID, identity.Address{City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+79990000000"})
	require.NoError(t, err)
	return c
}

func basketWithLine(t *testing.T, accountID uuid.UUID) *trade.Order {
	t.Helper()
	basket, err := trade.NewBasket(accountID)
	require.NoError(t, err)
	_, err = basket.SetLine(uuid.New(), 2)
	require.NoError(t, err)
	return basket
}

func placedOrder(t *testing.T, accountID uuid.UUID) *trade.Order {
	t.Helper()
	order := basketWithLine(t, accountID)
	require.NoError(t, order.Checkout(uuid.New()))
	order.ClearDomainEvents()
	return order
}

func TestOrderService_Checkout(t *testing.T) {
	t.Run("places the basket", func(t *testing.T) {
		f := newOrderFixture()
		accountID := uuid.New()
		basket := basketWithLine(t, accountID)
		contact := newContact(t, accountID)

		f.orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		f.contacts.On("FindByID", mock.Anything, contact.ID).Return(contact, nil)
		f.orders.On("Save", mock.Anything, basket).Return(nil)
		f.orders.On("LineDetails", mock.Anything, []uuid.UUID{basket.ID}).Return(map[uuid.UUID][]trade.LineDetails{}, nil)

		resp, err := f.service.Checkout(context.Background(), accountID, contact.ID)

		require.NoError(t, err)
		assert.Equal(t, "new", resp.Status)
		require.NotNil(t, resp.ContactID)
		assert.Equal(t, contact.ID, *resp.ContactID)
		assert.Equal(t, []string{trade.EventTypeOrderPlaced}, f.publisher.EventTypes())
	})

	t.Run("empty basket", func(t *testing.T) {
		f := newOrderFixture()
		accountID := uuid.New()
		basket, err := trade.NewBasket(accountID)
		require.NoError(t, err)
		f.orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)

		_, err = f.service.Checkout(context.Background(), accountID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrEmptyBasket)
		assert.True(t, basket.IsBasket())
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no basket at all", func(t *testing.T) {
		f := newOrderFixture()
		accountID := uuid.New()
		f.orders.On("FindBasket", mock.Anything, accountID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Checkout(context.Background(), accountID, uuid.New())

		assert.Equal(t, shared.CodeEmptyBasket, shared.CodeOf(err))
	})

	t.Run("contact of another account", func(t *testing.T) {
		f := newOrderFixture()
		accountID := uuid.New()
		basket := basketWithLine(t, accountID)
		foreign := newContact(t, uuid.New())
		f.orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		f.contacts.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

		_, err := f.service.Checkout(context.Background(), accountID, foreign.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidContact)
		assert.True(t, basket.IsBasket())
		assert.Nil(t, basket.ContactID)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("unknown contact", func(t *testing.T) {
		f := newOrderFixture()
		accountID := uuid.New()
		basket := basketWithLine(t, accountID)
		contactID := uuid.New()
		f.orders.On("FindBasket", mock.Anything, accountID).Return(basket, nil)
		f.contacts.On("FindByID", mock.Anything, contactID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Checkout(context.Background(), accountID, contactID)

		assert.Equal(t, shared.CodeInvalidContact, shared.CodeOf(err))
	})
}

func TestOrderService_SetStatus(t *testing.T) {
	staff := identity.Actor{AccountID: uuid.New(), IsStaff: true}

	t.Run("staff moves order", func(t *testing.T) {
		f := newOrderFixture()
		order := placedOrder(t, uuid.New())
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("LineDetails", mock.Anything, []uuid.UUID{order.ID}).Return(map[uuid.UUID][]trade.LineDetails{}, nil)
		f.orders.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.service.SetStatus(context.Background(), order.ID, trade.OrderStatusSent, staff)

		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)
		require.Len(t, f.publisher.Events(), 1)
		event := f.publisher.Events()[0].(*trade.OrderStatusChangedEvent)
		assert.Equal(t, trade.OrderStatusNew, event.OldStatus)
		assert.Equal(t, trade.OrderStatusSent, event.NewStatus)
	})

	t.Run("strict policy rejects skipping", func(t *testing.T) {
		f := newOrderFixture()
		f.service.SetTransitionPolicy(trade.TransitionStrict)
		order := placedOrder(t, uuid.New())
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("LineDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID][]trade.LineDetails{}, nil)

		_, err := f.service.SetStatus(context.Background(), order.ID, trade.OrderStatusSent, staff)

		assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("selling shop may change status", func(t *testing.T) {
		f := newOrderFixture()
		vendor := identity.Actor{AccountID: uuid.New(), Type: identity.AccountTypeShop}
		shop, err := catalog.NewShop("Связной", &vendor.AccountID)
		require.NoError(t, err)
		order := placedOrder(t, uuid.New())

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("LineDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID][]trade.LineDetails{
			order.ID: {{ShopID: shop.ID, ShopName: shop.Name, Quantity: 2, Price: decimal.NewFromInt(10)}},
		}, nil)
		f.shops.On("FindByOwner", mock.Anything, vendor.AccountID).Return(shop, nil)
		f.orders.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.service.SetStatus(context.Background(), order.ID, trade.OrderStatusConfirmed, vendor)

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(20)))
	})

	t.Run("shop not selling a line is rejected", func(t *testing.T) {
		f := newOrderFixture()
		vendor := identity.Actor{AccountID: uuid.New(), Type: identity.AccountTypeShop}
		shop, err := catalog.NewShop("Other", &vendor.AccountID)
		require.NoError(t, err)
		order := placedOrder(t, uuid.New())

		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("LineDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID][]trade.LineDetails{
			order.ID: {{ShopID: uuid.New(), ShopName: "Связной", Quantity: 1}},
		}, nil)
		f.shops.On("FindByOwner", mock.Anything, vendor.AccountID).Return(shop, nil)

		_, err = f.service.SetStatus(context.Background(), order.ID, trade.OrderStatusConfirmed, vendor)

		assert.Equal(t, shared.CodeNotAuthorized, shared.CodeOf(err))
		assert.Equal(t, trade.OrderStatusNew, order.Status)
	})

	t.Run("buyer is rejected", func(t *testing.T) {
		f := newOrderFixture()
		order := placedOrder(t, uuid.New())
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("LineDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID][]trade.LineDetails{}, nil)

		_, err := f.service.SetStatus(context.Background(), order.ID, trade.OrderStatusCanceled,
			identity.Actor{AccountID: order.AccountID, Type: identity.AccountTypeBuyer})

		assert.ErrorIs(t, err, shared.ErrNotAuthorized)
	})

	t.Run("basket is rejected", func(t *testing.T) {
		f := newOrderFixture()
		basket := basketWithLine(t, uuid.New())
		f.orders.On("FindByID", mock.Anything, basket.ID).Return(basket, nil)
		f.orders.On("LineDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID][]trade.LineDetails{}, nil)

		_, err := f.service.SetStatus(context.Background(), basket.ID, trade.OrderStatusNew, staff)

		assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	})
}

func TestOrderService_GetOrder_HidesForeignOrders(t *testing.T) {
	f := newOrderFixture()
	order := placedOrder(t, uuid.New())
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service.GetOrder(context.Background(), uuid.New(), order.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newOrderFixture()
	accountID := uuid.New()
	first := placedOrder(t, accountID)
	second := placedOrder(t, accountID)

	f.orders.On("Find", mock.Anything, mock.MatchedBy(func(q trade.OrderQuery) bool {
		return q.AccountID != nil && *q.AccountID == accountID && q.PlacedOnly && q.Filter.OrderDir == "desc"
	})).Return([]trade.Order{*first, *second}, int64(2), nil)
	f.orders.On("LineDetails", mock.Anything, []uuid.UUID{first.ID, second.ID}).Return(map[uuid.UUID][]trade.LineDetails{
		first.ID: {{Quantity: 3, Price: decimal.NewFromInt(7)}},
	}, nil)

	orders, total, err := f.service.ListOrders(context.Background(), accountID, OrderFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Total.Equal(decimal.NewFromInt(21)))
	assert.True(t, orders[1].Total.IsZero())
}

func TestOrderService_ListShopOrders(t *testing.T) {
	t.Run("filters by the caller's shop", func(t *testing.T) {
		f := newOrderFixture()
		vendor := identity.Actor{AccountID: uuid.New(), Type: identity.AccountTypeShop}
		shop, err := catalog.NewShop("Связной", &vendor.AccountID)
		require.NoError(t, err)
		f.shops.On("FindByOwner", mock.Anything, vendor.AccountID).Return(shop, nil)
		f.orders.On("Find", mock.Anything, mock.MatchedBy(func(q trade.OrderQuery) bool {
			return q.ShopID != nil && *q.ShopID == shop.ID && q.Status != nil && *q.Status == trade.OrderStatusNew
		})).Return([]trade.Order{}, int64(0), nil)

		orders, _, err := f.service.ListShopOrders(context.Background(), vendor, OrderFilter{Status: "new"})

		require.NoError(t, err)
		assert.Empty(t, orders)
		f.orders.AssertExpectations(t)
	})

	t.Run("buyer is rejected", func(t *testing.T) {
		f := newOrderFixture()

		_, _, err := f.service.ListShopOrders(context.Background(), identity.Actor{AccountID: uuid.New()}, OrderFilter{})

		assert.Equal(t, shared.CodeNotAuthorized, shared.CodeOf(err))
	})
}

func TestOrderService_ListAllOrders_StaffOnly(t *testing.T) {
	f := newOrderFixture()

	_, _, err := f.service.ListAllOrders(context.Background(), identity.Actor{AccountID: uuid.New(), Type: identity.AccountTypeShop}, OrderFilter{})

	assert.ErrorIs(t, err, shared.ErrNotAuthorized)
}
