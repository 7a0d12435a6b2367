package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// AccountType distinguishes buyers from vendors
type AccountType string

const (
	AccountTypeBuyer AccountType = "buyer"
	AccountTypeShop  AccountType = "shop"
)

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	return t == AccountTypeBuyer || t == AccountTypeShop
}

const bcryptCost = bcrypt.DefaultCost

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Account is a login identity. Accounts start inactive and become active once the
// email address is confirmed.
type Account struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Company      string
	Position     string
	Type         AccountType
	IsActive     bool
	IsStaff      bool
}

// Profile holds the editable personal fields of an account
type Profile struct {
	FirstName string
	LastName  string
	Company   string
	Position  string
}

// NewAccount creates an inactive account and records an AccountRegistered event
func NewAccount(email, password string, accountType AccountType, profile Profile) (*Account, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if accountType == "" {
		accountType = AccountTypeBuyer
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Account type must be 'buyer' or 'shop'")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		Type:              accountType,
	}
	if err := a.applyProfile(profile); err != nil {
		return nil, err
	}
	a.AddDomainEvent(NewAccountRegisteredEvent(a))
	return a, nil
}

// UpdateProfile overwrites the personal fields
func (a *Account) UpdateProfile(profile Profile) error {
	if err := a.applyProfile(profile); err != nil {
		return err
	}
	a.Touch(time.Now())
	return nil
}

func (a *Account) applyProfile(p Profile) error {
	fields := []struct{ name, value string }{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"company", p.Company},
		{"position", p.Position},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > 40 {
			return shared.NewDomainError(shared.CodeValidation, f.name+" cannot exceed 40 characters")
		}
	}
	a.FirstName = strings.TrimSpace(p.FirstName)
	a.LastName = strings.TrimSpace(p.LastName)
	a.Company = strings.TrimSpace(p.Company)
	a.Position = strings.TrimSpace(p.Position)
	return nil
}

// SetPassword replaces the password hash
func (a *Account) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = hash
	a.Touch(time.Now())
	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// Activate marks the email as confirmed
func (a *Account) Activate() {
	if a.IsActive {
		return
	}
	a.IsActive = true
	a.Touch(time.Now())
	a.AddDomainEvent(NewAccountActivatedEvent(a))
}

// IsShop reports whether the account is a vendor account
func (a *Account) IsShop() bool {
	return a.Type == AccountTypeShop
}

// FullName returns "First Last", or the email when no name is set
func (a *Account) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError(shared.CodeValidation, "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError(shared.CodeValidation, "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError(shared.CodeValidation, "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeValidation, "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeValidation, "Password cannot exceed 72 characters")
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return shared.NewDomainError(shared.CodeValidation, "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lower-cases and trims an address the way accounts store it
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}

// ParseAccountType converts a string, defaulting to buyer when empty
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return AccountTypeBuyer, nil
	}
	if !t.IsValid() {
		return "", shared.NewDomainError(shared.CodeValidation, "Account type must be 'buyer' or 'shop'")
	}
	return t, nil
}

// Actor is the authenticated caller of an operation, as supplied by the auth layer
type Actor struct {
	AccountID uuid.UUID
	Type      AccountType
	IsStaff   bool
}

// IsShop reports whether the caller acts for a vendor account
func (a Actor) IsShop() bool {
	return a.Type == AccountTypeShop
}
