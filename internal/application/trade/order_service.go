package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService places orders and moves them through their statuses
type OrderService struct {
	orderRepo      trade.OrderRepository
	contactRepo    identity.ContactRepository
	shopRepo       catalog.ShopRepository
	eventPublisher shared.EventPublisher
	policy         trade.TransitionPolicy
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService with permissive transitions
func NewOrderService(
	orderRepo trade.OrderRepository,
	contactRepo identity.ContactRepository,
	shopRepo catalog.ShopRepository,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		contactRepo: contactRepo,
		shopRepo:    shopRepo,
		policy:      trade.TransitionPermissive,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransitionPolicy switches between permissive and strict status transitions
func (s *OrderService) SetTransitionPolicy(policy trade.TransitionPolicy) {
	s.policy = policy
}

// Checkout places the account's basket for delivery to one of its contacts.
// Nothing changes when a check fails.
func (s *OrderService) Checkout(ctx context.Context, accountID, contactID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.AttrAccountID, accountID.String())

	basket, err := s.orderRepo.FindBasket(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrEmptyBasket
		}
		return nil, err
	}
	if len(basket.Lines) == 0 {
		return nil, shared.ErrEmptyBasket
	}
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidContact
		}
		return nil, err
	}
	if !contact.BelongsTo(accountID) {
		return nil, shared.ErrInvalidContact
	}

	if err := basket.Checkout(contact.ID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, basket); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save order: %w", err)
	}
	telemetry.SetAttributes(span,
		telemetry.AttrOrderID, basket.ID.String(),
		telemetry.AttrItemCount, len(basket.Lines),
	)
	s.publish(ctx, basket)

	s.logger.Info("Order placed",
		zap.String("order_id", basket.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.Int("lines", len(basket.Lines)),
	)
	return s.view(ctx, basket)
}

// SetStatus moves an order to target on behalf of staff or a shop selling one of its lines
func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, target trade.OrderStatus, actor identity.Actor) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "set_status")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.AttrOrderID, orderID.String(),
		telemetry.AttrOrderStatus, target.String(),
	)

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	details, err := s.orderRepo.LineDetails(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	view := trade.NewOrderView(order, details[order.ID])
	if err := s.authorizeStatusChange(ctx, actor, view); err != nil {
		return nil, err
	}

	old := order.Status
	if err := order.SetStatus(target, actor.AccountID, s.policy); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	s.publish(ctx, order)

	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", old.String()),
		zap.String("to", order.Status.String()),
		zap.String("actor_id", actor.AccountID.String()),
	)
	resp := ToOrderResponse(view)
	return &resp, nil
}

// ListOrders lists the buyer's placed orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, accountID uuid.UUID, f OrderFilter) ([]OrderResponse, int64, error) {
	query := trade.OrderQuery{AccountID: &accountID, PlacedOnly: true}
	return s.find(ctx, query, f)
}

// GetOrder returns one of the buyer's orders. Orders of other accounts are reported as missing.
func (s *OrderService) GetOrder(ctx context.Context, accountID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountID != accountID || order.IsBasket() {
		return nil, shared.ErrNotFound
	}
	return s.view(ctx, order)
}

// ListShopOrders lists placed orders containing the caller's listings
func (s *OrderService) ListShopOrders(ctx context.Context, actor identity.Actor, f OrderFilter) ([]OrderResponse, int64, error) {
	if !actor.IsShop() {
		return nil, 0, shared.NewDomainError(shared.CodeNotAuthorized, "Only shop accounts can list shop orders")
	}
	shop, err := s.shopRepo.FindByOwner(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []OrderResponse{}, 0, nil
		}
		return nil, 0, err
	}
	query := trade.OrderQuery{ShopID: &shop.ID, PlacedOnly: true}
	return s.find(ctx, query, f)
}

// ListAllOrders lists every order for staff, optionally by status
func (s *OrderService) ListAllOrders(ctx context.Context, actor identity.Actor, f OrderFilter) ([]OrderResponse, int64, error) {
	if !actor.IsStaff {
		return nil, 0, shared.ErrNotAuthorized
	}
	return s.find(ctx, trade.OrderQuery{PlacedOnly: f.Status == ""}, f)
}

func (s *OrderService) find(ctx context.Context, query trade.OrderQuery, f OrderFilter) ([]OrderResponse, int64, error) {
	if f.Status != "" {
		status, err := trade.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, 0, err
		}
		query.Status = &status
		if status == trade.OrderStatusBasket {
			query.PlacedOnly = false
		}
	}
	query.Filter = shared.DefaultFilter()
	if f.Page > 0 {
		query.Filter.Page = f.Page
	}
	if f.PageSize > 0 {
		query.Filter.PageSize = f.PageSize
	}
	query.Filter.OrderBy = "created_at"
	query.Filter.OrderDir = "desc"

	orders, total, err := s.orderRepo.Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if len(orders) == 0 {
		return []OrderResponse{}, total, nil
	}
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	details, err := s.orderRepo.LineDetails(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load order lines: %w", err)
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(trade.NewOrderView(&orders[i], details[orders[i].ID])))
	}
	return out, total, nil
}

func (s *OrderService) authorizeStatusChange(ctx context.Context, actor identity.Actor, view *trade.OrderView) error {
	if actor.IsStaff {
		return nil
	}
	if !actor.IsShop() {
		return shared.ErrNotAuthorized
	}
	shop, err := s.shopRepo.FindByOwner(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotAuthorized
		}
		return err
	}
	if !view.SellsFrom(shop.ID) {
		return shared.ErrNotAuthorized
	}
	return nil
}

func (s *OrderService) view(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	details, err := s.orderRepo.LineDetails(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	resp := ToOrderResponse(trade.NewOrderView(order, details[order.ID]))
	return &resp, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}
