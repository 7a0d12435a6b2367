package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid email or password")
	errInvalidToken       = shared.NewDomainError(shared.CodeInvalidToken, "Invalid or expired token")
)

// AuthService handles login, sessions and token-confirmed flows
type AuthService struct {
	accountRepo    identity.AccountRepository
	tokenRepo      identity.TokenRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accountRepo identity.AccountRepository,
	tokenRepo identity.TokenRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Login authenticates an account and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	account, err := s.accountRepo.FindByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !account.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("account_id", account.ID.String()))
		return nil, errInvalidCredentials
	}
	if !account.IsActive {
		s.logger.Warn("Login attempt for inactive account", zap.String("account_id", account.ID.String()))
		return nil, shared.NewDomainError(shared.CodeAccountInactive, "Confirm your email address before logging in")
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput(account))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	s.logger.Info("Account logged in", zap.String("account_id", account.ID.String()))
	return toTokenResponse(pair), nil
}

// RefreshToken reissues a token pair with the account's current data
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	accountID, err := claims.GetAccountUUID()
	if err != nil {
		return nil, errInvalidToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsAccountRevoked(ctx, accountID.String(), claims.GetIssuedAtTime())
		if err != nil {
			return nil, fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return nil, errInvalidToken
		}
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.IsActive {
		return nil, shared.NewDomainError(shared.CodeAccountInactive, "Account is not active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, tokenInput(account))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, mapTokenError(err)
	}
	return toTokenResponse(pair), nil
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI != "" && s.blacklist != nil && input.TTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TTL); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}
	s.logger.Info("Account logged out", zap.String("account_id", input.AccountID.String()))
	return nil
}

// ConfirmEmail activates the account when the token matches
func (s *AuthService) ConfirmEmail(ctx context.Context, req ConfirmRequest) error {
	account, token, err := s.consumeToken(ctx, req.Email, req.Token, identity.TokenPurposeEmailConfirm)
	if err != nil {
		return err
	}

	account.Activate()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}
	if err := s.tokenRepo.Delete(ctx, token.ID); err != nil {
		s.logger.Error("Failed to delete used token", zap.String("token_id", token.ID.String()), zap.Error(err))
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, account); err != nil {
		s.logger.Error("Failed to publish account events", zap.String("account_id", account.ID.String()), zap.Error(err))
	}

	s.logger.Info("Email confirmed", zap.String("account_id", account.ID.String()))
	return nil
}

// RequestPasswordReset issues a reset token and mails it. Unknown emails succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	account, err := s.accountRepo.FindByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if _, err := issueToken(ctx, s.tokenRepo, account.ID, identity.TokenPurposePasswordReset); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, identity.NewPasswordResetRequestedEvent(account)); err != nil {
			s.logger.Error("Failed to publish password reset event", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}
	return nil
}

// ResetPassword sets a new password and revokes every session of the account
func (s *AuthService) ResetPassword(ctx context.Context, req PasswordResetConfirmRequest) error {
	account, token, err := s.consumeToken(ctx, req.Email, req.Token, identity.TokenPurposePasswordReset)
	if err != nil {
		return err
	}

	if err := account.SetPassword(req.Password); err != nil {
		return err
	}
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.tokenRepo.Delete(ctx, token.ID); err != nil {
		s.logger.Error("Failed to delete used token", zap.String("token_id", token.ID.String()), zap.Error(err))
	}
	if s.blacklist != nil {
		if err := s.blacklist.RevokeAccount(ctx, account.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke sessions", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Password reset", zap.String("account_id", account.ID.String()))
	return nil
}

func (s *AuthService) consumeToken(ctx context.Context, email, key string, purpose identity.TokenPurpose) (*identity.Account, *identity.ConfirmationToken, error) {
	account, err := s.accountRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, errInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to load account: %w", err)
	}
	token, err := s.tokenRepo.FindByAccount(ctx, account.ID, purpose)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, errInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to load token: %w", err)
	}
	if !token.Matches(key, identity.DefaultTokenTTL) {
		return nil, nil, errInvalidToken
	}
	return account, token, nil
}

func tokenInput(a *identity.Account) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		AccountID:   a.ID,
		Email:       a.Email,
		AccountType: a.Type,
		IsStaff:     a.IsStaff,
	}
}

func toTokenResponse(pair *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(shared.CodeInvalidToken, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(shared.CodeInvalidToken, "Maximum token refresh count exceeded. Please log in again")
	default:
		return errInvalidToken
	}
}
