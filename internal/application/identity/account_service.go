package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService handles registration, profile and address book operations
type AccountService struct {
	accountRepo    identity.AccountRepository
	contactRepo    identity.ContactRepository
	tokenRepo      identity.TokenRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo identity.AccountRepository,
	contactRepo identity.ContactRepository,
	tokenRepo identity.TokenRepository,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		tokenRepo:   tokenRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates an inactive account and issues the email confirmation token
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	accountType, err := identity.ParseAccountType(req.Type)
	if err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists")
	}

	account, err := identity.NewAccount(req.Email, req.Password, accountType, identity.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
	})
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if _, err := issueToken(ctx, s.tokenRepo, account.ID, identity.TokenPurposeEmailConfirm); err != nil {
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.eventPublisher, account); err != nil {
		s.logger.Error("Failed to publish account events", zap.String("account_id", account.ID.String()), zap.Error(err))
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("type", string(account.Type)))

	resp := ToAccountResponse(account, nil)
	return &resp, nil
}

// GetDetails returns the account with its contacts
func (s *AccountService) GetDetails(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	resp := ToAccountResponse(account, contacts)
	return &resp, nil
}

// UpdateDetails applies a partial profile update and an optional password change
func (s *AccountService) UpdateDetails(ctx context.Context, accountID uuid.UUID, req UpdateDetailsRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := identity.Profile{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Company:   account.Company,
		Position:  account.Position,
	}
	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Company != nil {
		profile.Company = *req.Company
	}
	if req.Position != nil {
		profile.Position = *req.Position
	}
	if err := account.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if req.Password != nil {
		if err := account.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.logger.Info("Account details updated",
		zap.String("account_id", accountID.String()),
		zap.Bool("password_changed", req.Password != nil))

	return s.GetDetails(ctx, accountID)
}

// ListContacts returns the account's contacts
func (s *AccountService) ListContacts(ctx context.Context, accountID uuid.UUID) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	resp := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		resp = append(resp, ToContactResponse(&contacts[i]))
	}
	return resp, nil
}

// AddContact stores a new contact for the account
func (s *AccountService) AddContact(ctx context.Context, accountID uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	count, err := s.contactRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if count >= identity.MaxContactsPerAccount {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("An account can keep at most %d contacts", identity.MaxContactsPerAccount))
	}

	contact, err := identity.NewContact(accountID, req.address())
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	resp := ToContactResponse(contact)
	return &resp, nil
}

// UpdateContact replaces the fields of a contact owned by the account
func (s *AccountService) UpdateContact(ctx context.Context, accountID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if !contact.BelongsTo(accountID) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Contact not found")
	}
	if err := contact.Update(req.address()); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	resp := ToContactResponse(contact)
	return &resp, nil
}

// DeleteContacts removes the listed contacts owned by the account. Foreign or unknown IDs are ignored.
func (s *AccountService) DeleteContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, shared.NewDomainError(shared.CodeValidation, "No contacts listed")
	}
	deleted, err := s.contactRepo.DeleteForAccount(ctx, accountID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}
	return deleted, nil
}

// PurgeExpiredTokens deletes confirmation tokens past their lifetime
func (s *AccountService) PurgeExpiredTokens(ctx context.Context) error {
	deleted, err := s.tokenRepo.DeleteCreatedBefore(ctx, time.Now().Add(-identity.DefaultTokenTTL))
	if err != nil {
		return fmt.Errorf("failed to purge tokens: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Expired confirmation tokens purged", zap.Int64("count", deleted))
	}
	return nil
}

// issueToken returns the live token for (account, purpose), replacing an expired one
func issueToken(ctx context.Context, repo identity.TokenRepository, accountID uuid.UUID, purpose identity.TokenPurpose) (*identity.ConfirmationToken, error) {
	for attempt := 0; attempt < 2; attempt++ {
		candidate, err := identity.NewConfirmationToken(accountID, purpose)
		if err != nil {
			return nil, err
		}
		token, err := repo.GetOrCreate(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}
		if !token.Expired(identity.DefaultTokenTTL) {
			return token, nil
		}
		if err := repo.Delete(ctx, token.ID); err != nil {
			return nil, fmt.Errorf("failed to drop expired token: %w", err)
		}
	}
	return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
}
