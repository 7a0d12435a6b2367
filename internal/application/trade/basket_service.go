package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// BasketService edits the single basket order of an account
type BasketService struct {
	orderRepo   trade.OrderRepository
	listingRepo catalog.ListingRepository
	logger      *zap.Logger
}

// NewBasketService creates a new BasketService
func NewBasketService(orderRepo trade.OrderRepository, listingRepo catalog.ListingRepository, logger *zap.Logger) *BasketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BasketService{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// AddOrUpdateItems sets basket quantities. Invalid items are reported by index and
// skipped; valid ones are upserted together. Only the touched lines are written, so a
// concurrent edit of another listing is never overwritten.
func (s *BasketService) AddOrUpdateItems(ctx context.Context, accountID uuid.UUID, items []BasketItem) (*BasketUpdateResult, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "At least one item is required")
	}

	result := &BasketUpdateResult{Errors: make([]ItemError, 0)}
	parsed := make([]uuid.UUID, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i, item := range items {
		id, err := parseListingID(item.ListingID)
		if err != nil {
			result.Errors = append(result.Errors, itemError(i, item.ListingID, err))
			continue
		}
		parsed[i] = id
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return result, nil
	}

	basket, err := s.ensureBasket(ctx, accountID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	active := make(map[uuid.UUID]struct{}, len(listings))
	for _, l := range listings {
		active[l.ID] = struct{}{}
	}

	touched := make(map[uuid.UUID]struct{}, len(ids))
	for i, item := range items {
		id := parsed[i]
		if id == uuid.Nil {
			continue
		}
		if item.Quantity < 1 {
			result.Errors = append(result.Errors, ItemError{
				Index:     i,
				ListingID: item.ListingID,
				Code:      shared.CodeValidation,
				Message:   "Quantity must be at least 1",
			})
			continue
		}
		if _, ok := active[id]; !ok {
			result.Errors = append(result.Errors, ItemError{
				Index:     i,
				ListingID: item.ListingID,
				Code:      shared.CodeValidation,
				Message:   "Listing is unknown or no longer offered",
			})
			continue
		}
		if _, err := basket.SetLine(id, item.Quantity); err != nil {
			result.Errors = append(result.Errors, itemError(i, item.ListingID, err))
			continue
		}
		touched[id] = struct{}{}
		result.Applied++
	}

	if len(touched) > 0 {
		lines := make([]trade.OrderLine, 0, len(touched))
		for _, l := range basket.Lines {
			if _, ok := touched[l.ListingID]; ok {
				lines = append(lines, l)
			}
		}
		if err := s.orderRepo.SaveLines(ctx, basket.ID, lines); err != nil {
			return nil, fmt.Errorf("save basket lines: %w", err)
		}
	}
	sort.SliceStable(result.Errors, func(a, b int) bool {
		return result.Errors[a].Index < result.Errors[b].Index
	})
	s.logger.Debug("Basket updated",
		zap.String("account_id", accountID.String()),
		zap.Int("applied", result.Applied),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// RemoveItems drops basket lines for the listings and returns how many went.
// Having no basket is not an error.
func (s *BasketService) RemoveItems(ctx context.Context, accountID uuid.UUID, listingIDs []uuid.UUID) (int, error) {
	basket, err := s.orderRepo.FindBasket(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	removed, err := s.orderRepo.DeleteLines(ctx, basket.ID, listingIDs)
	if err != nil {
		return 0, fmt.Errorf("delete basket lines: %w", err)
	}
	return int(removed), nil
}

// GetBasket returns the priced basket, or nil when the account has none
func (s *BasketService) GetBasket(ctx context.Context, accountID uuid.UUID) (*OrderResponse, error) {
	basket, err := s.orderRepo.FindBasket(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	details, err := s.orderRepo.LineDetails(ctx, []uuid.UUID{basket.ID})
	if err != nil {
		return nil, fmt.Errorf("load basket lines: %w", err)
	}
	resp := ToOrderResponse(trade.NewOrderView(basket, details[basket.ID]))
	return &resp, nil
}

// ensureBasket returns the account's basket, creating it when missing. A concurrent
// creation for the same account loses on the unique index and reloads.
func (s *BasketService) ensureBasket(ctx context.Context, accountID uuid.UUID) (*trade.Order, error) {
	basket, err := s.orderRepo.FindBasket(ctx, accountID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	basket, err = trade.NewBasket(accountID)
	if err != nil {
		return nil, err
	}
	err = s.orderRepo.CreateBasket(ctx, basket)
	if err == nil {
		return basket, nil
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		return s.orderRepo.FindBasket(ctx, accountID)
	}
	return nil, fmt.Errorf("create basket: %w", err)
}

func parseListingID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, shared.NewDomainError(shared.CodeValidation, "Listing ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeValidation, "Listing ID must be a UUID")
	}
	return id, nil
}

func itemError(index int, listingID string, err error) ItemError {
	ie := ItemError{Index: index, ListingID: listingID, Code: shared.CodeValidation, Message: err.Error()}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		ie.Code = domainErr.Code
		ie.Message = domainErr.Message
	}
	return ie
}
