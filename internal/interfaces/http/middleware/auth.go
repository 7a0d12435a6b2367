package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey        = "jwt_claims"
	ActorKey         = "actor"
	AccountIDKey     = "account_id"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
	DevAccountHeader = "X-Account-ID"
)

// AccountLookup resolves the account named by the development header
type AccountLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is optional; lookups that fail are logged and let through
	TokenBlacklist auth.TokenBlacklist
	// DevAccounts enables the X-Account-ID header when no bearer token is sent.
	// Leave nil outside development.
	DevAccounts AccountLookup
	Logger      *zap.Logger
}

// Authenticate requires a valid bearer token and stores the caller as an
// identity.Actor in the gin context
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" && cfg.DevAccounts != nil && c.GetHeader(DevAccountHeader) != "" {
			authenticateDev(c, cfg)
			return
		}
		if header == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Authentication required")
			return
		}

		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err, "Token validation failed")
			return
		}
		if revoked(c.Request.Context(), cfg, claims) {
			abortUnauthorized(c, cfg.Logger, auth.ErrTokenBlacklisted, "Token has been revoked")
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err, "Token claims are incomplete")
			return
		}
		c.Set(ClaimsKey, claims)
		setActor(c, actor)
		c.Next()
	}
}

// revoked checks the single token and the account-wide revocation
func revoked(ctx context.Context, cfg AuthConfig, claims *auth.Claims) bool {
	if cfg.TokenBlacklist == nil {
		return false
	}
	if claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			cfg.Logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if blacklisted {
			return true
		}
	}
	invalidated, err := cfg.TokenBlacklist.IsAccountRevoked(ctx, claims.AccountID, claims.GetIssuedAtTime())
	if err != nil {
		cfg.Logger.Error("Failed to check account revocation", zap.String("account_id", claims.AccountID), zap.Error(err))
		return false
	}
	return invalidated
}

func authenticateDev(c *gin.Context, cfg AuthConfig) {
	id, err := uuid.Parse(c.GetHeader(DevAccountHeader))
	if err != nil {
		abortUnauthorized(c, cfg.Logger, err, "X-Account-ID is not a UUID")
		return
	}
	account, err := cfg.DevAccounts.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			abortUnauthorized(c, cfg.Logger, err, "Unknown account")
			return
		}
		cfg.Logger.Error("Failed to load development account", zap.Error(err))
		abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Internal server error")
		return
	}
	if !account.IsActive {
		abortUnauthorized(c, cfg.Logger, errors.New("account inactive"), "Account is not active")
		return
	}
	setActor(c, identity.Actor{AccountID: account.ID, Type: account.Type, IsStaff: account.IsStaff})
	c.Next()
}

func setActor(c *gin.Context, actor identity.Actor) {
	c.Set(ActorKey, actor)
	c.Set(AccountIDKey, actor.AccountID.String())

	ctx := c.Request.Context()
	ctx, _ = logger.WithAccountID(ctx, logger.FromContext(ctx), actor.AccountID.String())
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType):
		message = "Invalid token"
	}
	abort(c, http.StatusUnauthorized, code, message)
}

// RequireStaff rejects callers that are not staff
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := GetActor(c); !ok || !actor.IsStaff {
			abort(c, http.StatusForbidden, shared.CodeNotAuthorized, "Staff only")
			return
		}
		c.Next()
	}
}

// RequireShop rejects callers that are not shop accounts
func RequireShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := GetActor(c); !ok || !actor.IsShop() {
			abort(c, http.StatusForbidden, shared.CodeNotAuthorized, "Shop accounts only")
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (identity.Actor, bool) {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(identity.Actor); ok {
			return actor, true
		}
	}
	return identity.Actor{}, false
}

// GetJWTClaims returns the bearer token claims, nil for development callers
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
