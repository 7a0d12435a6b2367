// Package notification composes email messages from domain events and hands them to the notifier.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/notification"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds the fixed parts of composed messages
type Config struct {
	SiteName string
	// AdminEmail receives invoices; empty disables them
	AdminEmail string
}

func (c Config) site() string {
	if c.SiteName == "" {
		return "Shopfront"
	}
	return c.SiteName
}

// AccountMailHandler mails confirmation and password reset tokens
type AccountMailHandler struct {
	accountRepo identity.AccountRepository
	tokenRepo   identity.TokenRepository
	notifier    notification.Notifier
	config      Config
	logger      *zap.Logger
}

// NewAccountMailHandler creates a handler for account events
func NewAccountMailHandler(
	accountRepo identity.AccountRepository,
	tokenRepo identity.TokenRepository,
	notifier notification.Notifier,
	config Config,
	logger *zap.Logger,
) *AccountMailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountMailHandler{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		notifier:    notifier,
		config:      config,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *AccountMailHandler) EventTypes() []string {
	return []string{identity.EventTypeAccountRegistered, identity.EventTypePasswordReset}
}

// Handle sends the token mail matching the event
func (h *AccountMailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		purpose identity.TokenPurpose
		kind    string
		subject string
		tmpl    = confirmEmailTmpl
	)
	switch event.EventType() {
	case identity.EventTypeAccountRegistered:
		purpose, kind, subject = identity.TokenPurposeEmailConfirm, "account.confirm", "Confirm your email address"
	case identity.EventTypePasswordReset:
		purpose, kind, subject = identity.TokenPurposePasswordReset, "account.password_reset", "Password reset"
		tmpl = passwordResetTmpl
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	account, err := h.accountRepo.FindByID(ctx, event.AccountID())
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	token, err := h.tokenRepo.FindByAccount(ctx, account.ID, purpose)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("token already consumed, mail skipped",
				zap.String("account_id", account.ID.String()),
				zap.String("purpose", string(purpose)))
			return nil
		}
		return fmt.Errorf("failed to load token: %w", err)
	}

	body, err := render(tmpl, map[string]any{
		"Name":  account.FullName(),
		"Site":  h.config.site(),
		"Token": token.Key,
	})
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", kind, err)
	}
	send(ctx, h.notifier, h.logger, notification.NewMessage(kind, subject, body, account.Email))
	return nil
}

// CatalogImportedHandler mails the import summary to the shop owner
type CatalogImportedHandler struct {
	accountRepo identity.AccountRepository
	notifier    notification.Notifier
	logger      *zap.Logger
}

// NewCatalogImportedHandler creates a handler for catalog.imported events
func NewCatalogImportedHandler(accountRepo identity.AccountRepository, notifier notification.Notifier, logger *zap.Logger) *CatalogImportedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogImportedHandler{accountRepo: accountRepo, notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CatalogImportedHandler) EventTypes() []string {
	return []string{catalog.EventTypeCatalogImported}
}

// Handle sends the summary mail
func (h *CatalogImportedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	imported, ok := event.(*catalog.CatalogImportedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeCatalogImported, event.EventType())
	}

	owner, err := h.accountRepo.FindByID(ctx, imported.AccountID())
	if err != nil {
		return fmt.Errorf("failed to load shop owner: %w", err)
	}

	body, err := render(catalogImportedTmpl, map[string]any{
		"Name":     owner.FullName(),
		"Shop":     imported.ShopName,
		"Imported": imported.Imported,
		"Retired":  imported.Retired,
	})
	if err != nil {
		return fmt.Errorf("failed to render import summary: %w", err)
	}
	send(ctx, h.notifier, h.logger, notification.NewMessage("catalog.imported",
		"Catalog imported: "+imported.ShopName, body, owner.Email))
	return nil
}

// OrderMailHandler mails the buyer confirmation and the admin invoice when an
// order is placed or moved (back) into status new
type OrderMailHandler struct {
	orderRepo   trade.OrderRepository
	accountRepo identity.AccountRepository
	contactRepo identity.ContactRepository
	notifier    notification.Notifier
	config      Config
	logger      *zap.Logger
}

// NewOrderMailHandler creates a handler for order events
func NewOrderMailHandler(
	orderRepo trade.OrderRepository,
	accountRepo identity.AccountRepository,
	contactRepo identity.ContactRepository,
	notifier notification.Notifier,
	config Config,
	logger *zap.Logger,
) *OrderMailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderMailHandler{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		notifier:    notifier,
		config:      config,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderMailHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged}
}

// Handle sends the order mails
func (h *OrderMailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var orderID uuid.UUID
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		orderID = e.OrderID
	case *trade.OrderStatusChangedEvent:
		if e.NewStatus != trade.OrderStatusNew {
			return nil
		}
		orderID = e.OrderID
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	data, buyer, err := h.invoiceData(ctx, orderID)
	if err != nil {
		return err
	}

	body, err := render(orderPlacedTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render order mail: %w", err)
	}
	send(ctx, h.notifier, h.logger, notification.NewMessage("order.placed",
		"Order "+orderID.String()+" received", body, buyer.Email))

	if h.config.AdminEmail == "" {
		return nil
	}
	text, err := render(invoiceTextTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	html, err := renderHTML(invoiceHTMLTmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	send(ctx, h.notifier, h.logger, notification.NewMessage("order.invoice",
		"Invoice for order "+orderID.String(), text, h.config.AdminEmail).WithHTML(html))
	return nil
}

type invoiceData struct {
	OrderID string
	Status  string
	Name    string
	Buyer   string
	Address string
	Phone   string
	Lines   []trade.LineDetails
	Total   decimal.Decimal
}

func (h *OrderMailHandler) invoiceData(ctx context.Context, orderID uuid.UUID) (*invoiceData, *identity.Account, error) {
	order, err := h.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order: %w", err)
	}
	details, err := h.orderRepo.LineDetails(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	buyer, err := h.accountRepo.FindByID(ctx, order.AccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load buyer: %w", err)
	}

	view := trade.NewOrderView(order, details[order.ID])
	data := &invoiceData{
		OrderID: order.ID.String(),
		Status:  order.Status.String(),
		Name:    buyer.FullName(),
		Buyer:   buyer.Email,
		Lines:   view.Lines,
		Total:   view.Total,
	}
	if order.ContactID != nil {
		contact, err := h.contactRepo.FindByID(ctx, *order.ContactID)
		switch {
		case err == nil:
			data.Address = contact.Address.String()
			data.Phone = contact.Phone
		case errors.Is(err, shared.ErrNotFound):
			h.logger.Warn("order contact no longer exists", zap.String("order_id", order.ID.String()))
		default:
			return nil, nil, fmt.Errorf("failed to load contact: %w", err)
		}
	}
	return data, buyer, nil
}

func send(ctx context.Context, notifier notification.Notifier, logger *zap.Logger, msg notification.Message) {
	if len(msg.Recipients) == 0 {
		logger.Warn("message has no recipients", zap.String("kind", msg.Kind))
		return
	}
	if !notifier.Send(ctx, msg) {
		logger.Warn("notification was not accepted",
			zap.String("kind", msg.Kind),
			zap.String("message_id", msg.ID.String()))
	}
}
