package identity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// MaxContactsPerAccount bounds the address book of one account
const MaxContactsPerAccount = 5

// Contact is a delivery address with a phone number
type Contact struct {
	shared.BaseEntity
	AccountID uuid.UUID
	Address
}

// Address holds the postal fields of a contact
type Address struct {
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// NewContact creates a contact for an account
func NewContact(accountID uuid.UUID, addr Address) (*Contact, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Contact requires an account")
	}
	addr = addr.trimmed()
	if err := addr.validate(); err != nil {
		return nil, err
	}
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  accountID,
		Address:    addr,
	}, nil
}

// Update replaces the address fields
func (c *Contact) Update(addr Address) error {
	addr = addr.trimmed()
	if err := addr.validate(); err != nil {
		return err
	}
	c.Address = addr
	c.UpdatedAt = time.Now()
	return nil
}

// BelongsTo reports whether the contact is owned by the account
func (c *Contact) BelongsTo(accountID uuid.UUID) bool {
	return c.AccountID == accountID
}

// String renders the address on one line
func (a Address) String() string {
	parts := []string{a.City, a.Street}
	if a.House != "" {
		parts = append(parts, "house "+a.House)
	}
	if a.Structure != "" {
		parts = append(parts, "structure "+a.Structure)
	}
	if a.Building != "" {
		parts = append(parts, "building "+a.Building)
	}
	if a.Apartment != "" {
		parts = append(parts, "apt. "+a.Apartment)
	}
	return strings.Join(parts, ", ")
}

func (a Address) trimmed() Address {
	return Address{
		City:      strings.TrimSpace(a.City),
		Street:    strings.TrimSpace(a.Street),
		House:     strings.TrimSpace(a.House),
		Structure: strings.TrimSpace(a.Structure),
		Building:  strings.TrimSpace(a.Building),
		Apartment: strings.TrimSpace(a.Apartment),
		Phone:     strings.TrimSpace(a.Phone),
	}
}

func (a Address) validate() error {
	if a.City == "" || a.Street == "" || a.Phone == "" {
		return shared.NewDomainError(shared.CodeValidation, "City, street and phone are required")
	}
	if utf8.RuneCountInString(a.City) > 50 || utf8.RuneCountInString(a.Street) > 100 {
		return shared.NewDomainError(shared.CodeValidation, "City or street is too long")
	}
	if utf8.RuneCountInString(a.House) > 15 || utf8.RuneCountInString(a.Structure) > 15 || utf8.RuneCountInString(a.Building) > 15 || utf8.RuneCountInString(a.Apartment) > 15 {
		return shared.NewDomainError(shared.CodeValidation, "House, structure, building and apartment cannot exceed 15 characters")
	}
	if utf8.RuneCountInString(a.Phone) > 20 {
		return shared.NewDomainError(shared.CodeValidation, "Phone cannot exceed 20 characters")
	}
	return nil
}
