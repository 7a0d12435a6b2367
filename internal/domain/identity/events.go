package identity

import (
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Account domain event types
const (
	EventTypeAccountRegistered = "account.registered"
	EventTypeAccountActivated  = "account.activated"
	EventTypePasswordReset     = "account.password_reset_requested"
)

// AccountRegisteredEvent is published when a new inactive account is created
type AccountRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string      `json:"email"`
	Type  AccountType `json:"type"`
}

// NewAccountRegisteredEvent creates a new AccountRegisteredEvent
func NewAccountRegisteredEvent(a *Account) *AccountRegisteredEvent {
	return &AccountRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountRegistered, AggregateTypeAccount, a.ID, a.ID),
		Email:           a.Email,
		Type:            a.Type,
	}
}

// AccountActivatedEvent is published once the email address is confirmed
type AccountActivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewAccountActivatedEvent creates a new AccountActivatedEvent
func NewAccountActivatedEvent(a *Account) *AccountActivatedEvent {
	return &AccountActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountActivated, AggregateTypeAccount, a.ID, a.ID),
		Email:           a.Email,
	}
}

// PasswordResetRequestedEvent is published when a reset token has been issued
type PasswordResetRequestedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewPasswordResetRequestedEvent creates a new PasswordResetRequestedEvent
func NewPasswordResetRequestedEvent(a *Account) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePasswordReset, AggregateTypeAccount, a.ID, a.ID),
		Email:           a.Email,
	}
}
