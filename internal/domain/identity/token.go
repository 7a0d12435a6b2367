package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// TokenPurpose tells which flow a confirmation token belongs to
type TokenPurpose string

const (
	TokenPurposeEmailConfirm  TokenPurpose = "email_confirm"
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

// tokenKeyBytes yields a 64 character hex key
const tokenKeyBytes = 32

// DefaultTokenTTL is how long a confirmation token stays usable
const DefaultTokenTTL = 24 * time.Hour

// ConfirmationToken is a random key mailed to the account owner. There is at most one
// token per (account, purpose); it is deleted once used.
type ConfirmationToken struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Purpose   TokenPurpose
	Key       string
	CreatedAt time.Time
}

// NewConfirmationToken generates a token with a fresh random key
func NewConfirmationToken(accountID uuid.UUID, purpose TokenPurpose) (*ConfirmationToken, error) {
	key, err := generateKey()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
	}
	return &ConfirmationToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Purpose:   purpose,
		Key:       key,
		CreatedAt: time.Now(),
	}, nil
}

// Matches compares the presented key in constant time and checks expiry
func (t *ConfirmationToken) Matches(key string, ttl time.Duration) bool {
	if subtle.ConstantTimeCompare([]byte(key), []byte(t.Key)) != 1 {
		return false
	}
	return !t.Expired(ttl)
}

// Expired reports whether the token is older than ttl. A non-positive ttl never expires.
func (t *ConfirmationToken) Expired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(t.CreatedAt) > ttl
}

func generateKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
