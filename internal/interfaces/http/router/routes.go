package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	User    *handler.UserHandler
	Catalog *handler.CatalogHandler
	Basket  *handler.BasketHandler
	Partner *handler.PartnerHandler
	Admin   *handler.AdminHandler
}

// Guards are the access middleware applied per route group. Nil limiters are skipped.
type Guards struct {
	Authenticate gin.HandlerFunc
	// AuthLimit throttles credential endpoints (login, register, password reset)
	AuthLimit gin.HandlerFunc
}

// Groups builds the route groups of the API
func Groups(h Handlers, g Guards) []RouteRegistrar {
	return []RouteRegistrar{
		UserRoutes(h.User, g),
		CatalogRoutes(h.Catalog),
		BasketRoutes(h.Basket, g),
		PartnerRoutes(h.Partner, g),
		AdminRoutes(h.Admin, g),
	}
}

// UserRoutes covers registration, sessions, profile and delivery contacts
func UserRoutes(h *handler.UserHandler, g Guards) *DomainGroup {
	user := NewDomainGroup("user", "/user")
	user.POST("/register", g.AuthLimit, h.Register)
	user.POST("/register/confirm", g.AuthLimit, h.ConfirmEmail)
	user.POST("/login", g.AuthLimit, h.Login)
	user.POST("/login/refresh", g.AuthLimit, h.RefreshToken)
	user.POST("/password_reset", g.AuthLimit, h.RequestPasswordReset)
	user.POST("/password_reset/confirm", g.AuthLimit, h.ResetPassword)

	account := user.Group("account", "").Use(g.Authenticate)
	account.POST("/logout", h.Logout)
	account.GET("/details", h.GetDetails)
	account.POST("/details", h.UpdateDetails)
	account.GET("/contact", h.ListContacts)
	account.POST("/contact", h.AddContact)
	account.PUT("/contact", h.UpdateContact)
	account.DELETE("/contact", h.DeleteContacts)
	return user
}

// CatalogRoutes are public
func CatalogRoutes(h *handler.CatalogHandler) *DomainGroup {
	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/categories", h.ListCategories)
	catalog.GET("/shops", h.ListShops)
	catalog.GET("/products", h.ListProducts)
	catalog.GET("/products/:id", h.GetProduct)
	return catalog
}

// BasketRoutes covers the buyer's basket and placed orders
func BasketRoutes(h *handler.BasketHandler, g Guards) *DomainGroup {
	trade := NewDomainGroup("trade", "").Use(g.Authenticate)
	trade.GET("/basket", h.GetBasket)
	trade.POST("/basket", h.SetItems)
	trade.PUT("/basket", h.SetItems)
	trade.DELETE("/basket", h.RemoveItems)
	trade.GET("/order", h.ListOrders)
	trade.POST("/order", h.Checkout)
	trade.GET("/order/:id", h.GetOrder)
	return trade
}

// PartnerRoutes are limited to shop accounts
func PartnerRoutes(h *handler.PartnerHandler, g Guards) *DomainGroup {
	partner := NewDomainGroup("partner", "/partner").Use(g.Authenticate, middleware.RequireShop())
	partner.POST("/update", h.UpdateCatalog)
	partner.GET("/state", h.GetState)
	partner.POST("/state", h.SetState)
	partner.GET("/orders", h.ListOrders)
	partner.PUT("/orders/:id/status", h.SetOrderStatus)
	return partner
}

// AdminRoutes are limited to staff
func AdminRoutes(h *handler.AdminHandler, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.Authenticate, middleware.RequireStaff())
	admin.POST("/import", h.ImportCatalog)
	admin.GET("/orders", h.ListOrders)
	admin.PUT("/orders/:id/status", h.SetOrderStatus)
	return admin
}
