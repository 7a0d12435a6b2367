package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

type mockAccountLookup struct {
	mock.Mock
}

func (m *mockAccountLookup) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*identity.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func authRouter(cfg AuthConfig, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(cfg))
	r.Use(guards...)
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"account_id": actor.AccountID.String(),
			"type":       string(actor.Type),
			"staff":      actor.IsStaff,
			"has_claims": GetJWTClaims(c) != nil,
			"ctx_id":     c.GetString(AccountIDKey),
		})
	})
	return r
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	return req
}

func TestAuthenticate_Bearer(t *testing.T) {
	svc := newJWTService()
	accountID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		AccountID:   accountID,
		Email:       "shop@example.com",
		AccountType: identity.AccountTypeShop,
	})
	require.NoError(t, err)

	w := serve(authRouter(AuthConfig{JWTService: svc}), bearer(pair.AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"account_id":"`+accountID.String()+`","type":"shop","staff":false,"has_claims":true,"ctx_id":"`+accountID.String()+`"}`, w.Body.String())
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc := newJWTService()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{AccountID: uuid.New(), Email: "a@example.com", AccountType: identity.AccountTypeBuyer})
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "test-issuer",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		AccountID:   uuid.NewString(),
		AccountType: "buyer",
		TokenType:   "access",
	}).SignedString([]byte("test-secret-key-at-least-32-chars"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      func() *http.Request
		wantCode string
	}{
		{name: "no credentials", req: func() *http.Request { return httptest.NewRequest(http.MethodGet, "/me", nil) }, wantCode: "UNAUTHORIZED"},
		{name: "not a bearer header", req: func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
			return req
		}, wantCode: "UNAUTHORIZED"},
		{name: "garbage token", req: func() *http.Request { return bearer("not.a.jwt") }, wantCode: "UNAUTHORIZED"},
		{name: "refresh token used as access token", req: func() *http.Request { return bearer(pair.RefreshToken) }, wantCode: "UNAUTHORIZED"},
		{name: "expired token", req: func() *http.Request { return bearer(expired) }, wantCode: "TOKEN_EXPIRED"},
		{name: "dev header without lookup configured", req: func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set(DevAccountHeader, uuid.NewString())
			return req
		}, wantCode: "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(authRouter(AuthConfig{JWTService: svc}), tt.req())
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.wantCode+`"`)
			assert.Contains(t, w.Body.String(), `"Status":false`)
		})
	}
}

func TestAuthenticate_Blacklist(t *testing.T) {
	ctx := context.Background()
	svc := newJWTService()
	accountID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{AccountID: accountID, Email: "a@example.com", AccountType: identity.AccountTypeBuyer})
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("blacklisted jti", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(ctx, claims.ID, time.Minute))

		w := serve(authRouter(AuthConfig{JWTService: svc, TokenBlacklist: bl}), bearer(pair.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("revoked account", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.RevokeAccount(ctx, accountID.String(), time.Minute))

		w := serve(authRouter(AuthConfig{JWTService: svc, TokenBlacklist: bl}), bearer(pair.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("clean token passes", func(t *testing.T) {
		w := serve(authRouter(AuthConfig{JWTService: svc, TokenBlacklist: auth.NewInMemoryTokenBlacklist()}), bearer(pair.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blacklist outage fails open", func(t *testing.T) {
		w := serve(authRouter(AuthConfig{JWTService: svc, TokenBlacklist: brokenBlacklist{}}), bearer(pair.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type brokenBlacklist struct{}

func (brokenBlacklist) AddToBlacklist(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (brokenBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (brokenBlacklist) RevokeAccount(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (brokenBlacklist) IsAccountRevoked(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestAuthenticate_DevHeader(t *testing.T) {
	staff := &identity.Account{Type: identity.AccountTypeBuyer, IsActive: true, IsStaff: true}
	staff.ID = uuid.New()
	inactive := &identity.Account{Type: identity.AccountTypeShop}
	inactive.ID = uuid.New()
	missing := uuid.New()

	lookup := new(mockAccountLookup)
	lookup.On("FindByID", mock.Anything, staff.ID).Return(staff, nil)
	lookup.On("FindByID", mock.Anything, inactive.ID).Return(inactive, nil)
	lookup.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	r := authRouter(AuthConfig{JWTService: newJWTService(), DevAccounts: lookup})
	devReq := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(DevAccountHeader, id)
		return req
	}

	w := serve(r, devReq(staff.ID.String()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":"`+staff.ID.String()+`","type":"buyer","staff":true,"has_claims":false,"ctx_id":"`+staff.ID.String()+`"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, devReq("seven")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, devReq(missing.String())).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, devReq(inactive.ID.String())).Code)
	lookup.AssertExpectations(t)
}

func TestRequireGuards(t *testing.T) {
	svc := newJWTService()
	token := func(accountType identity.AccountType, staff bool) string {
		pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{AccountID: uuid.New(), Email: "x@example.com", AccountType: accountType, IsStaff: staff})
		require.NoError(t, err)
		return pair.AccessToken
	}

	tests := []struct {
		name       string
		guard      gin.HandlerFunc
		token      string
		wantStatus int
	}{
		{"staff allowed", RequireStaff(), token(identity.AccountTypeBuyer, true), http.StatusOK},
		{"non-staff refused", RequireStaff(), token(identity.AccountTypeShop, false), http.StatusForbidden},
		{"shop allowed", RequireShop(), token(identity.AccountTypeShop, false), http.StatusOK},
		{"buyer refused", RequireShop(), token(identity.AccountTypeBuyer, true), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(authRouter(AuthConfig{JWTService: svc}, tt.guard), bearer(tt.token))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "NOT_AUTHORIZED")
			}
		})
	}

	t.Run("guards without authentication", func(t *testing.T) {
		w := serve(newEngine(RequireStaff()), httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
