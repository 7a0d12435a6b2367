package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	Save(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]Contact, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	// DeleteForAccount deletes the listed contacts owned by the account and returns how many went
	DeleteForAccount(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// TokenRepository defines the interface for confirmation token persistence
type TokenRepository interface {
	// GetOrCreate returns the existing token for (account, purpose) or stores candidate
	GetOrCreate(ctx context.Context, candidate *ConfirmationToken) (*ConfirmationToken, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, purpose TokenPurpose) (*ConfirmationToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
