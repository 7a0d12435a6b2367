package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Email        string               `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string               `gorm:"type:varchar(255);not null"`
	FirstName    string               `gorm:"type:varchar(150)"`
	LastName     string               `gorm:"type:varchar(150)"`
	Company      string               `gorm:"type:varchar(40)"`
	Position     string               `gorm:"type:varchar(40)"`
	Type         identity.AccountType `gorm:"type:varchar(10);not null;default:'buyer'"`
	IsActive     bool                 `gorm:"not null;default:false"`
	IsStaff      bool                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *identity.Account {
	account := &identity.Account{
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Company:      m.Company,
		Position:     m.Position,
		Type:         m.Type,
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
	}
	m.PopulateAggregateRoot(&account.BaseAggregateRoot)
	return account
}

// AccountModelFromDomain creates an AccountModel from a domain Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		Position:     a.Position,
		Type:         a.Type,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// ContactModel is the persistence model for delivery contacts.
type ContactModel struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	City      string    `gorm:"type:varchar(50);not null"`
	Street    string    `gorm:"type:varchar(100);not null"`
	House     string    `gorm:"type:varchar(15)"`
	Structure string    `gorm:"type:varchar(15)"`
	Building  string    `gorm:"type:varchar(15)"`
	Apartment string    `gorm:"type:varchar(15)"`
	Phone     string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *identity.Contact {
	return &identity.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		AccountID:  m.AccountID,
		Address: identity.Address{
			City:      m.City,
			Street:    m.Street,
			House:     m.House,
			Structure: m.Structure,
			Building:  m.Building,
			Apartment: m.Apartment,
			Phone:     m.Phone,
		},
	}
}

// ContactModelFromDomain creates a ContactModel from a domain Contact
func ContactModelFromDomain(c *identity.Contact) *ContactModel {
	m := &ContactModel{
		AccountID: c.AccountID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ConfirmationTokenModel is the persistence model for mailed confirmation keys.
// (account_id, purpose) is unique.
type ConfirmationTokenModel struct {
	ID        uuid.UUID             `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_tokens_account_purpose,priority:1"`
	Purpose   identity.TokenPurpose `gorm:"type:varchar(20);not null;uniqueIndex:idx_tokens_account_purpose,priority:2"`
	Key       string                `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConfirmationTokenModel) TableName() string {
	return "confirmation_tokens"
}

// ToDomain converts the persistence model to a domain ConfirmationToken.
func (m *ConfirmationTokenModel) ToDomain() *identity.ConfirmationToken {
	return &identity.ConfirmationToken{
		ID:        m.ID,
		AccountID: m.AccountID,
		Purpose:   m.Purpose,
		Key:       m.Key,
		CreatedAt: m.CreatedAt,
	}
}

// ConfirmationTokenModelFromDomain creates a ConfirmationTokenModel from a domain token
func ConfirmationTokenModelFromDomain(t *identity.ConfirmationToken) *ConfirmationTokenModel {
	return &ConfirmationTokenModel{
		ID:        t.ID,
		AccountID: t.AccountID,
		Purpose:   t.Purpose,
		Key:       t.Key,
		CreatedAt: t.CreatedAt,
	}
}
