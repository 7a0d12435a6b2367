package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/application/importapp"
	apptrade "github.com/shopfront/backend/internal/application/trade"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/feed"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testFeed = `shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Цвет": золотистый
`

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type staticFetcher struct {
	body []byte
}

func (f staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.body, nil
}

// inlineQueue runs jobs on the calling goroutine
type inlineQueue struct{}

func (inlineQueue) Submit(_ string, run func(ctx context.Context) error) (string, error) {
	_ = run(context.Background())
	return "job-1", nil
}

type envelope struct {
	Status bool            `json:"Status"`
	Data   json.RawMessage `json:"Data"`
	Errors *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"Errors"`
}

type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	accounts *persistence.GormAccountRepository
	shop     *identity.Account
	buyer    *identity.Account
	staff    *identity.Account
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	accountRepo := persistence.NewGormAccountRepository(db)
	contactRepo := persistence.NewGormContactRepository(db)
	tokenRepo := persistence.NewGormTokenRepository(db)
	shopRepo := persistence.NewGormShopRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	listingRepo := persistence.NewGormListingRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	importer := importapp.NewFeedImporter(
		persistence.NewGormTransactionScope(db),
		accountRepo,
		staticFetcher{body: []byte(testFeed)},
		feed.NewYAMLParser(),
		nil,
	)
	importer.SetQueue(inlineQueue{})

	catalogService := appcatalog.NewCatalogService(shopRepo, categoryRepo, listingRepo, nil)
	orderService := apptrade.NewOrderService(orderRepo, contactRepo, shopRepo, nil)
	users := NewUserHandler(
		appidentity.NewAuthService(accountRepo, tokenRepo, jwtService, blacklist, nil),
		appidentity.NewAccountService(accountRepo, contactRepo, tokenRepo, nil),
	)
	catalogHandler := NewCatalogHandler(catalogService)
	basket := NewBasketHandler(apptrade.NewBasketService(orderRepo, listingRepo, nil), orderService)
	partner := NewPartnerHandler(importer, catalogService, orderService)
	admin := NewAdminHandler(importer, orderService)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	api.POST("/user/register", users.Register)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/shops", catalogHandler.ListShops)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)

	authed := api.Group("", middleware.Authenticate(middleware.AuthConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		DevAccounts:    accountRepo,
	}))
	authed.GET("/user/details", users.GetDetails)
	authed.POST("/user/contact", users.AddContact)
	authed.GET("/user/contact", users.ListContacts)
	authed.GET("/basket", basket.GetBasket)
	authed.POST("/basket", basket.SetItems)
	authed.DELETE("/basket", basket.RemoveItems)
	authed.GET("/order", basket.ListOrders)
	authed.POST("/order", basket.Checkout)
	authed.GET("/order/:id", basket.GetOrder)

	shops := authed.Group("/partner", middleware.RequireShop())
	shops.POST("/update", partner.UpdateCatalog)
	shops.GET("/state", partner.GetState)
	shops.POST("/state", partner.SetState)
	shops.GET("/orders", partner.ListOrders)
	shops.PUT("/orders/:id/status", partner.SetOrderStatus)

	staff := authed.Group("/admin", middleware.RequireStaff())
	staff.POST("/import", admin.ImportCatalog)
	staff.GET("/orders", admin.ListOrders)
	staff.PUT("/orders/:id/status", admin.SetOrderStatus)

	ts := &testServer{t: t, engine: r, accounts: accountRepo}
	ts.shop = ts.seedAccount("shop@example.com", identity.AccountTypeShop, false)
	ts.buyer = ts.seedAccount("buyer@example.com", identity.AccountTypeBuyer, false)
	ts.staff = ts.seedAccount("staff@example.com", identity.AccountTypeBuyer, true)
	return ts
}

func (s *testServer) seedAccount(email string, accountType identity.AccountType, staff bool) *identity.Account {
	s.t.Helper()
	account, err := identity.NewAccount(email, "s3cret-Passw0rd", accountType, identity.Profile{FirstName: "Test"})
	require.NoError(s.t, err)
	account.Activate()
	account.IsStaff = staff
	require.NoError(s.t, s.accounts.Create(context.Background(), account))
	return account
}

// do sends a request as account (anonymous when nil) and decodes the envelope
func (s *testServer) do(method, path string, account *identity.Account, body any) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if account != nil {
		req.Header.Set(middleware.DevAccountHeader, account.ID.String())
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/partner/update", s.shop, importapp.ImportRequest{URL: "https://feeds.example.com/shop.yaml"})
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "job-1", decode[importapp.ImportAccepted](t, env.Data).JobID)

	code, env = s.do(http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, code)
	listings := decode[[]appcatalog.ListingResponse](t, env.Data)
	require.Len(t, listings, 1)
	listing := listings[0]
	assert.Equal(t, "Связной", listing.ShopName)
	assert.Equal(t, 14, listing.Quantity)

	code, env = s.do(http.MethodGet, "/api/v1/products/"+listing.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, listing.ID, decode[appcatalog.ListingResponse](t, env.Data).ID)

	code, env = s.do(http.MethodPost, "/api/v1/basket", s.buyer, apptrade.BasketItemsRequest{
		Items: []apptrade.BasketItem{{ListingID: listing.ID.String(), Quantity: 2}},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, decode[apptrade.BasketUpdateResult](t, env.Data).Applied)

	code, env = s.do(http.MethodPost, "/api/v1/user/contact", s.buyer, appidentity.ContactRequest{
		City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+79990000000",
	})
	require.Equal(t, http.StatusCreated, code)
	contact := decode[appidentity.ContactResponse](t, env.Data)

	code, env = s.do(http.MethodPost, "/api/v1/order", s.buyer, apptrade.CheckoutRequest{ContactID: contact.ID})
	require.Equal(t, http.StatusCreated, code)
	order := decode[apptrade.OrderResponse](t, env.Data)
	assert.Equal(t, "new", order.Status)
	require.Len(t, order.Lines, 1)

	code, env = s.do(http.MethodGet, "/api/v1/order", s.buyer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]apptrade.OrderResponse](t, env.Data), 1)

	code, _ = s.do(http.MethodGet, "/api/v1/order/"+order.ID.String(), s.staff, nil)
	assert.Equal(t, http.StatusNotFound, code, "orders are private to their buyer")

	code, env = s.do(http.MethodPut, "/api/v1/partner/orders/"+order.ID.String()+"/status", s.shop, apptrade.SetStatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", decode[apptrade.OrderResponse](t, env.Data).Status)

	code, env = s.do(http.MethodGet, "/api/v1/admin/orders", s.staff, nil)
	require.Equal(t, http.StatusOK, code)
	all := decode[[]apptrade.OrderResponse](t, env.Data)
	require.Len(t, all, 1)
	assert.Equal(t, "confirmed", all[0].Status)

	code, env = s.do(http.MethodGet, "/api/v1/admin/orders", s.buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_AUTHORIZED", env.Errors.Code)

	code, env = s.do(http.MethodPost, "/api/v1/partner/update", s.buyer, importapp.ImportRequest{URL: "https://feeds.example.com/shop.yaml"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_AUTHORIZED", env.Errors.Code)
}

func TestBasketPartialSuccess(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(http.MethodPost, "/api/v1/partner/update", s.shop, importapp.ImportRequest{URL: "https://feeds.example.com/shop.yaml"})
	require.Equal(t, http.StatusAccepted, code)
	code, env := s.do(http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, code)
	listings := decode[[]appcatalog.ListingResponse](t, env.Data)
	require.Len(t, listings, 1)
	listing := listings[0]

	code, env = s.do(http.MethodGet, "/api/v1/basket", s.buyer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, []string{"", "null"}, string(env.Data), "no basket until the first edit")

	body := `{"items": [
		{"listing_id": "` + listing.ID.String() + `", "quantity": 2},
		{"quantity": 3},
		{"listing_id": "not-a-uuid", "quantity": 1},
		{"listing_id": "` + uuid.NewString() + `", "quantity": 1}
	]}`
	code, env = s.do(http.MethodPost, "/api/v1/basket", s.buyer, body)
	require.Equal(t, http.StatusOK, code)
	result := decode[apptrade.BasketUpdateResult](t, env.Data)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.Errors, 3)
	for i, e := range result.Errors {
		assert.Equal(t, i+1, e.Index)
		assert.Equal(t, "VALIDATION_ERROR", e.Code)
	}

	code, env = s.do(http.MethodGet, "/api/v1/basket", s.buyer, nil)
	require.Equal(t, http.StatusOK, code)
	basket := decode[apptrade.OrderResponse](t, env.Data)
	require.Len(t, basket.Lines, 1)
	assert.Equal(t, 2, basket.Lines[0].Quantity)

	code, env = s.do(http.MethodDelete, "/api/v1/basket", s.buyer, apptrade.BasketRemoveRequest{Items: []uuid.UUID{listing.ID, uuid.New()}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[CountData](t, env.Data).Count)
}

func TestShopState(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(http.MethodPost, "/api/v1/partner/update", s.shop, importapp.ImportRequest{URL: "https://feeds.example.com/shop.yaml"})
	require.Equal(t, http.StatusAccepted, code)

	closed := false
	code, _ = s.do(http.MethodPost, "/api/v1/partner/state", s.shop, appcatalog.ShopStateRequest{State: &closed})
	require.Equal(t, http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]appcatalog.ListingResponse](t, env.Data), "closed shops are hidden from the catalog")
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	contact := appidentity.ContactRequest{City: "Moscow", Street: "Tverskaya", Phone: "+79990000000"}
	code, env := s.do(http.MethodPost, "/api/v1/user/contact", s.buyer, contact)
	require.Equal(t, http.StatusCreated, code)
	contactID := decode[appidentity.ContactResponse](t, env.Data).ID

	tests := []struct {
		name     string
		method   string
		path     string
		account  *identity.Account
		body     any
		wantCode int
		errCode  string
	}{
		{"anonymous basket", http.MethodGet, "/api/v1/basket", nil, nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown dev account", http.MethodGet, "/api/v1/basket", &identity.Account{}, nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty basket checkout", http.MethodPost, "/api/v1/order", s.buyer, apptrade.CheckoutRequest{ContactID: contactID}, http.StatusUnprocessableEntity, "EMPTY_BASKET"},
		{"malformed json", http.MethodPost, "/api/v1/basket", s.buyer, `{"items": [`, http.StatusBadRequest, "BAD_REQUEST"},
		{"no basket items", http.MethodPost, "/api/v1/basket", s.buyer, `{"items": []}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad order id", http.MethodGet, "/api/v1/order/seven", s.buyer, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing order", http.MethodGet, "/api/v1/order/" + uuid.NewString(), s.buyer, nil, http.StatusNotFound, "NOT_FOUND"},
		{"unknown status", http.MethodPut, "/api/v1/admin/orders/" + uuid.NewString() + "/status", s.staff, apptrade.SetStatusRequest{Status: "lost"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad shop filter", http.MethodGet, "/api/v1/products?shop_id=abc", nil, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(tt.method, tt.path, tt.account, tt.body)
			assert.Equal(t, tt.wantCode, code)
			require.NotNil(t, env.Errors)
			assert.False(t, env.Status)
			assert.Equal(t, tt.errCode, env.Errors.Code)
		})
	}

	t.Run("validation details name the field", func(t *testing.T) {
		code, env := s.do(http.MethodPost, "/api/v1/user/contact", s.buyer, map[string]string{"street": "Tverskaya", "phone": "1"})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Errors)
		assert.Equal(t, "VALIDATION_ERROR", env.Errors.Code)
		require.NotEmpty(t, env.Errors.Details)
		assert.True(t, strings.HasPrefix(env.Errors.Details[0], "city:"), env.Errors.Details[0])
	})

	t.Run("duplicate registration", func(t *testing.T) {
		req := appidentity.RegisterRequest{
			FirstName: "Buyer",
			LastName:  "Again",
			Email:     "buyer@example.com",
			Password:  "s3cret-Passw0rd",
		}
		code, env := s.do(http.MethodPost, "/api/v1/user/register", nil, req)
		assert.Equal(t, http.StatusConflict, code)
		require.NotNil(t, env.Errors)
		assert.Equal(t, "ALREADY_EXISTS", env.Errors.Code)
	})
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		pinger     fakePinger
		wantCode   int
		wantStatus string
	}{
		{"database up", fakePinger{}, http.StatusOK, "ok"},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.pinger).Health)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tt.wantStatus, decode[HealthData](t, env.Data).Status)
		})
	}
}
