package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements identity.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create inserts a new account; a taken email yields shared.ErrAlreadyExists
func (r *GormAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	return translateError(r.db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error)
}

// Update writes every column of an existing account
func (r *GormAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("id = ?", account.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.AccountModelFromDomain(account))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an account by its login email, case-insensitively
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail reports whether the email is already registered
func (r *GormAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormContactRepository implements identity.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *identity.Contact) error {
	return translateError(r.db.WithContext(ctx).Save(models.ContactModelFromDomain(contact)).Error)
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByAccount lists an account's contacts, oldest first
func (r *GormContactRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]identity.Contact, error) {
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]identity.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, *rows[i].ToDomain())
	}
	return contacts, nil
}

// CountByAccount counts an account's contacts
func (r *GormContactRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactModel{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// DeleteForAccount deletes the listed contacts that belong to the account
func (r *GormContactRepository) DeleteForAccount(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Delete(&models.ContactModel{})
	return result.RowsAffected, result.Error
}

// GormTokenRepository implements identity.TokenRepository using GORM
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GormTokenRepository
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// GetOrCreate returns the stored token for (account, purpose), inserting candidate when
// there is none. A concurrent insert for the same pair is resolved by reading the winner.
func (r *GormTokenRepository) GetOrCreate(ctx context.Context, candidate *identity.ConfirmationToken) (*identity.ConfirmationToken, error) {
	existing, err := r.FindByAccount(ctx, candidate.AccountID, candidate.Purpose)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	err = translateError(r.db.WithContext(ctx).Create(models.ConfirmationTokenModelFromDomain(candidate)).Error)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return r.FindByAccount(ctx, candidate.AccountID, candidate.Purpose)
	}
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// FindByAccount finds the token of an account for a purpose
func (r *GormTokenRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, purpose identity.TokenPurpose) (*identity.ConfirmationToken, error) {
	var model models.ConfirmationTokenModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND purpose = ?", accountID, purpose).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a token once it has been used
func (r *GormTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ConfirmationTokenModel{}).Error
}

// DeleteCreatedBefore removes tokens issued before cutoff and returns how many went
func (r *GormTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ConfirmationTokenModel{})
	return result.RowsAffected, result.Error
}

var (
	_ identity.AccountRepository = (*GormAccountRepository)(nil)
	_ identity.ContactRepository = (*GormContactRepository)(nil)
	_ identity.TokenRepository   = (*GormTokenRepository)(nil)
)
