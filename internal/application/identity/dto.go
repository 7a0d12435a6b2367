package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
)

// RegisterRequest contains the fields of a new account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"max=40"`
	LastName  string `json:"last_name" binding:"max=40"`
	Company   string `json:"company" binding:"max=40"`
	Position  string `json:"position" binding:"max=40"`
	Type      string `json:"type" binding:"omitempty,oneof=buyer shop"`
}

// ConfirmRequest pairs an email address with a mailed token
type ConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required,len=64"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	AccountID uuid.UUID
	TokenJTI  string
	// TTL is the remaining lifetime of the token
	TTL time.Duration
}

// PasswordResetRequest asks for a reset token
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest sets a new password with a reset token
type PasswordResetConfirmRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Token    string `json:"token" binding:"required,len=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateDetailsRequest is a partial update; nil fields are left unchanged
type UpdateDetailsRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=40"`
	LastName  *string `json:"last_name" binding:"omitempty,max=40"`
	Company   *string `json:"company" binding:"omitempty,max=40"`
	Position  *string `json:"position" binding:"omitempty,max=40"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=72"`
}

// ContactRequest contains the fields of a delivery contact
type ContactRequest struct {
	City      string `json:"city" binding:"required,max=50"`
	Street    string `json:"street" binding:"required,max=100"`
	House     string `json:"house" binding:"max=15"`
	Structure string `json:"structure" binding:"max=15"`
	Building  string `json:"building" binding:"max=15"`
	Apartment string `json:"apartment" binding:"max=15"`
	Phone     string `json:"phone" binding:"required,max=20"`
}

// UpdateContactRequest addresses one existing contact
type UpdateContactRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
	ContactRequest
}

// DeleteContactsRequest lists contacts to remove
type DeleteContactsRequest struct {
	Items []uuid.UUID `json:"items" binding:"required,min=1"`
}

// TokenResponse contains an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Structure string    `json:"structure"`
	Building  string    `json:"building"`
	Apartment string    `json:"apartment"`
	Phone     string    `json:"phone"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Type      string            `json:"type"`
	IsActive  bool              `json:"is_active"`
	Contacts  []ContactResponse `json:"contacts"`
}

func (r ContactRequest) address() identity.Address {
	return identity.Address{
		City:      r.City,
		Street:    r.Street,
		House:     r.House,
		Structure: r.Structure,
		Building:  r.Building,
		Apartment: r.Apartment,
		Phone:     r.Phone,
	}
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *identity.Account, contacts []identity.Contact) AccountResponse {
	resp := AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Position:  a.Position,
		Type:      string(a.Type),
		IsActive:  a.IsActive,
		Contacts:  make([]ContactResponse, 0, len(contacts)),
	}
	for i := range contacts {
		resp.Contacts = append(resp.Contacts, ToContactResponse(&contacts[i]))
	}
	return resp
}
