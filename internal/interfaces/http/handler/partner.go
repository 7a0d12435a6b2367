package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/application/importapp"
	apptrade "github.com/shopfront/backend/internal/application/trade"
	"github.com/shopfront/backend/internal/domain/trade"
)

// PartnerHandler serves shop accounts: catalog upload, order acceptance and fulfilment
type PartnerHandler struct {
	BaseHandler
	importer       *importapp.FeedImporter
	catalogService *appcatalog.CatalogService
	orderService   *apptrade.OrderService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(importer *importapp.FeedImporter, catalogService *appcatalog.CatalogService, orderService *apptrade.OrderService) *PartnerHandler {
	return &PartnerHandler{
		importer:       importer,
		catalogService: catalogService,
		orderService:   orderService,
	}
}

// UpdateCatalog godoc
// @Summary      Import the shop catalog
// @Description  Queues a fetch of the YAML feed at url. The feed replaces the shop's catalog; the outcome is mailed.
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body importapp.ImportRequest true "Feed URL"
// @Success      202 {object} dto.Response{Data=importapp.ImportAccepted}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/update [post]
func (h *PartnerHandler) UpdateCatalog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req importapp.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	jobID, err := h.importer.SubmitImport(c.Request.Context(), actor.AccountID, req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, importapp.ImportAccepted{JobID: jobID})
}

// GetState godoc
// @Summary      Get the shop state
// @Tags         partner
// @Produce      json
// @Success      200 {object} dto.Response{Data=appcatalog.ShopResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/state [get]
func (h *PartnerHandler) GetState(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	shop, err := h.catalogService.GetShopState(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// SetState godoc
// @Summary      Switch order acceptance
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.ShopStateRequest true "Accepting orders"
// @Success      200 {object} dto.Response{Data=appcatalog.ShopResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/state [post]
func (h *PartnerHandler) SetState(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appcatalog.ShopStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	shop, err := h.catalogService.SetShopState(c.Request.Context(), actor, *req.State)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// ListOrders godoc
// @Summary      List orders containing the shop's listings
// @Tags         partner
// @Produce      json
// @Param        status    query string false "Status filter" Enums(new, confirmed, assembled, sent, delivered, canceled)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]apptrade.OrderResponse,Meta=dto.Meta}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/orders [get]
func (h *PartnerHandler) ListOrders(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f apptrade.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	orders, total, err := h.orderService.ListShopOrders(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// SetOrderStatus godoc
// @Summary      Move an order containing the shop's listings to a new status
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Order ID" format(uuid)
// @Param        request body apptrade.SetStatusRequest true "Target status"
// @Success      200 {object} dto.Response{Data=apptrade.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/orders/{id}/status [put]
func (h *PartnerHandler) SetOrderStatus(c *gin.Context) {
	setOrderStatus(&h.BaseHandler, h.orderService, c)
}

// setOrderStatus is shared by the partner and admin routes; the service
// decides what the caller may change
func setOrderStatus(h *BaseHandler, orders *apptrade.OrderService, c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apptrade.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	status, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	order, err := orders.SetStatus(c.Request.Context(), id, status, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
