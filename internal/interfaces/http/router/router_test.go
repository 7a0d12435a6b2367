package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

// tag appends name to the X-Trace header so tests can see which middleware ran
func tag(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("X-Trace", name)
		c.Next()
	}
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"), WithMiddleware(nil, tag("api")))
	assert.Equal(t, "v2", r.apiVersion)
	assert.Len(t, r.middleware, 1, "nil middleware is dropped")
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", ok("up"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", ok("pong"))
	NewRouter(engine, WithMiddleware(tag("api"))).Register(group).Setup()

	w := get(engine, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"api"}, w.Header().Values("X-Trace"))

	w = get(engine, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Values("X-Trace"), "API middleware stays off the bare engine")
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("basket", "/basket")
		g.GET("", ok("get")).POST("", ok("post")).PUT("", ok("put")).DELETE("", ok("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/basket", nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
		}
	})

	t.Run("middleware is inherited by subgroups only", func(t *testing.T) {
		engine := gin.New()
		outer := NewDomainGroup("user", "/user")
		outer.POST("/login", nil, ok("login"))
		inner := outer.Group("account", "").Use(tag("auth"), nil)
		inner.GET("/details", ok("details"))
		outer.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/login", nil))
		assert.Equal(t, "login", w.Body.String())
		assert.Empty(t, w.Header().Values("X-Trace"))

		w = get(engine, "/user/details")
		assert.Equal(t, "details", w.Body.String())
		assert.Equal(t, []string{"auth"}, w.Header().Values("X-Trace"))
	})
}

func TestGroups(t *testing.T) {
	engine := gin.New()
	h := Handlers{
		User:    handler.NewUserHandler(nil, nil),
		Catalog: handler.NewCatalogHandler(nil),
		Basket:  handler.NewBasketHandler(nil, nil),
		Partner: handler.NewPartnerHandler(nil, nil, nil),
		Admin:   handler.NewAdminHandler(nil, nil),
	}
	NewRouter(engine).Register(Groups(h, Guards{})...).Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	want := []string{
		"POST /api/v1/user/register",
		"POST /api/v1/user/register/confirm",
		"POST /api/v1/user/login",
		"POST /api/v1/user/login/refresh",
		"POST /api/v1/user/logout",
		"POST /api/v1/user/password_reset",
		"POST /api/v1/user/password_reset/confirm",
		"GET /api/v1/user/details",
		"POST /api/v1/user/details",
		"GET /api/v1/user/contact",
		"POST /api/v1/user/contact",
		"PUT /api/v1/user/contact",
		"DELETE /api/v1/user/contact",
		"GET /api/v1/categories",
		"GET /api/v1/shops",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/basket",
		"POST /api/v1/basket",
		"PUT /api/v1/basket",
		"DELETE /api/v1/basket",
		"GET /api/v1/order",
		"POST /api/v1/order",
		"GET /api/v1/order/:id",
		"POST /api/v1/partner/update",
		"GET /api/v1/partner/state",
		"POST /api/v1/partner/state",
		"GET /api/v1/partner/orders",
		"PUT /api/v1/partner/orders/:id/status",
		"POST /api/v1/admin/import",
		"GET /api/v1/admin/orders",
		"PUT /api/v1/admin/orders/:id/status",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
	require.Len(t, engine.Routes(), len(want))
}

func TestGroups_GuardsApply(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	h := Handlers{
		User:    handler.NewUserHandler(nil, nil),
		Catalog: handler.NewCatalogHandler(nil),
		Basket:  handler.NewBasketHandler(nil, nil),
		Partner: handler.NewPartnerHandler(nil, nil, nil),
		Admin:   handler.NewAdminHandler(nil, nil),
	}
	NewRouter(engine).Register(Groups(h, Guards{Authenticate: deny})...).Setup()

	for _, path := range []string{"/api/v1/basket", "/api/v1/order", "/api/v1/user/details", "/api/v1/partner/state", "/api/v1/admin/orders"} {
		assert.Equal(t, http.StatusUnauthorized, get(engine, path).Code, path)
	}
}
