package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
)

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	BaseHandler
	catalogService *appcatalog.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *appcatalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]appcatalog.CategoryResponse,Meta=dto.Meta}
// @Failure      400 {object} ErrorResponse
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var f appcatalog.PageFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, categories, total, page, size)
}

// ListShops godoc
// @Summary      List shops accepting orders
// @Tags         catalog
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]appcatalog.ShopResponse,Meta=dto.Meta}
// @Failure      400 {object} ErrorResponse
// @Router       /shops [get]
func (h *CatalogHandler) ListShops(c *gin.Context) {
	var f appcatalog.PageFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	shops, total, err := h.catalogService.ListShops(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, shops, total, page, size)
}

// ListProducts godoc
// @Summary      Browse listings
// @Description  Active listings of shops accepting orders, optionally narrowed by shop, category and name
// @Tags         catalog
// @Produce      json
// @Param        shop_id     query string false "Shop ID" format(uuid)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        search      query string false "Product name contains"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]appcatalog.ListingResponse,Meta=dto.Meta}
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var f appcatalog.ListingFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	var ok bool
	if f.ShopID, ok = h.queryID(c, "shop_id"); !ok {
		return
	}
	if f.CategoryID, ok = h.queryID(c, "category_id"); !ok {
		return
	}

	listings, total, err := h.catalogService.ListListings(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, listings, total, page, size)
}

// GetProduct godoc
// @Summary      Get a listing
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Listing ID" format(uuid)
// @Success      200 {object} dto.Response{Data=appcatalog.ListingResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.catalogService.GetListing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}
