package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusBasket    OrderStatus = "basket"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusBasket, OrderStatusNew, OrderStatusConfirmed, OrderStatusAssembled,
		OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further fulfillment happens in this state
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransitionTo is the forward-only transition table. It is consulted only under
// TransitionStrict; re-saving an order as new is always allowed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCanceled {
		return s != OrderStatusBasket && !s.IsTerminal()
	}
	switch s {
	case OrderStatusBasket:
		return target == OrderStatusNew
	case OrderStatusNew:
		return target == OrderStatusNew || target == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return target == OrderStatusAssembled
	case OrderStatusAssembled:
		return target == OrderStatusSent
	case OrderStatusSent:
		return target == OrderStatusDelivered
	}
	return false
}

// TransitionPolicy selects how SetStatus validates targets
type TransitionPolicy int

const (
	// TransitionPermissive lets staff and vendors move a non-terminal order to any fulfillment state
	TransitionPermissive TransitionPolicy = iota
	// TransitionStrict enforces new -> confirmed -> assembled -> sent -> delivered
	TransitionStrict
)

// ParseOrderStatus validates a status coming from a request
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", shared.NewDomainError(shared.CodeValidation, "Unknown order status: "+s)
	}
	return status, nil
}

// OrderLine is one listing in an order; the (order, listing) pair is unique
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ListingID uuid.UUID
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is the aggregate root of both the live basket and placed orders
type Order struct {
	shared.BaseAggregateRoot
	AccountID uuid.UUID
	Status    OrderStatus
	ContactID *uuid.UUID
	Lines     []OrderLine
	PlacedAt  *time.Time
}

// NewBasket creates the basket order of an account
func NewBasket(accountID uuid.UUID) (*Order, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Basket requires an account")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
		Status:            OrderStatusBasket,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// IsBasket reports whether the order is still the live cart
func (o *Order) IsBasket() bool {
	return o.Status == OrderStatusBasket
}

// Line returns the line for a listing, if any
func (o *Order) Line(listingID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ListingID == listingID {
			return &o.Lines[i]
		}
	}
	return nil
}

// SetLine sets the quantity of a listing in the basket, overwriting any previous value
func (o *Order) SetLine(listingID uuid.UUID, quantity int) (*OrderLine, error) {
	if !o.IsBasket() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Only the basket can be edited")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Listing ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}

	now := time.Now()
	if line := o.Line(listingID); line != nil {
		line.Quantity = quantity
		line.UpdatedAt = now
		o.UpdatedAt = now
		return line, nil
	}
	o.Lines = append(o.Lines, OrderLine{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ListingID: listingID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	o.UpdatedAt = now
	return &o.Lines[len(o.Lines)-1], nil
}

// Checkout turns the basket into a new order delivered to contactID
func (o *Order) Checkout(contactID uuid.UUID) error {
	if !o.IsBasket() {
		return shared.NewDomainError(shared.CodeInvalidState, "Order has already been placed")
	}
	if len(o.Lines) == 0 {
		return shared.ErrEmptyBasket
	}
	if contactID == uuid.Nil {
		return shared.ErrInvalidContact
	}

	now := time.Now()
	o.Status = OrderStatusNew
	o.ContactID = &contactID
	o.PlacedAt = &now
	o.Touch(now)

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// SetStatus moves a placed order to target. Delivered and canceled orders never move
// again under either policy; the basket can only leave through Checkout.
func (o *Order) SetStatus(target OrderStatus, actorID uuid.UUID, policy TransitionPolicy) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Unknown order status: "+target.String())
	}
	if o.IsBasket() {
		return shared.NewDomainError(shared.CodeInvalidState, "Basket must be checked out before its status can change")
	}
	if target == OrderStatusBasket {
		return shared.NewDomainError(shared.CodeInvalidState, "Order cannot return to the basket")
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState, "Order is already "+o.Status.String())
	}
	if policy == TransitionStrict && !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot move order from "+o.Status.String()+" to "+target.String())
	}

	old := o.Status
	o.Status = target
	o.Touch(time.Now())

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, actorID))
	return nil
}

// ListingIDs returns the listing of every line
func (o *Order) ListingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ListingID)
	}
	return ids
}
