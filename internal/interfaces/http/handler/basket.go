package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/shopfront/backend/internal/application/trade"
)

// BasketHandler serves the buyer's basket and placed orders
type BasketHandler struct {
	BaseHandler
	basketService *apptrade.BasketService
	orderService  *apptrade.OrderService
}

// NewBasketHandler creates a new basket handler
func NewBasketHandler(basketService *apptrade.BasketService, orderService *apptrade.OrderService) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
		orderService:  orderService,
	}
}

// GetBasket godoc
// @Summary      Get the basket
// @Description  The caller's basket with priced lines. Data is null until the first item is added.
// @Tags         basket
// @Produce      json
// @Success      200 {object} dto.Response{Data=apptrade.OrderResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [get]
func (h *BasketHandler) GetBasket(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	basket, err := h.basketService.GetBasket(c.Request.Context(), actor.AccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, basket)
}

// SetItems godoc
// @Summary      Add or update basket lines
// @Description  Sets the quantity of each listed item. Items that cannot be applied are reported in errors while the rest are saved.
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body apptrade.BasketItemsRequest true "Items"
// @Success      200 {object} dto.Response{Data=apptrade.BasketUpdateResult}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [post]
// @Router       /basket [put]
func (h *BasketHandler) SetItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req apptrade.BasketItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.basketService.AddOrUpdateItems(c.Request.Context(), actor.AccountID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveItems godoc
// @Summary      Remove basket lines
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body apptrade.BasketRemoveRequest true "Listing ids"
// @Success      200 {object} dto.Response{Data=CountData}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [delete]
func (h *BasketHandler) RemoveItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req apptrade.BasketRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	removed, err := h.basketService.RemoveItems(c.Request.Context(), actor.AccountID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: int64(removed)})
}

// ListOrders godoc
// @Summary      List placed orders
// @Tags         order
// @Produce      json
// @Param        status    query string false "Status filter" Enums(new, confirmed, assembled, sent, delivered, canceled)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]apptrade.OrderResponse,Meta=dto.Meta}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order [get]
func (h *BasketHandler) ListOrders(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f apptrade.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	orders, total, err := h.orderService.ListOrders(c.Request.Context(), actor.AccountID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// Checkout godoc
// @Summary      Place the basket
// @Description  Turns the basket into a new order delivered to the given contact
// @Tags         order
// @Accept       json
// @Produce      json
// @Param        request body apptrade.CheckoutRequest true "Delivery contact"
// @Success      201 {object} dto.Response{Data=apptrade.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order [post]
func (h *BasketHandler) Checkout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req apptrade.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.Checkout(c.Request.Context(), actor.AccountID, req.ContactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetOrder godoc
// @Summary      Get a placed order
// @Tags         order
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{Data=apptrade.OrderResponse}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order/{id} [get]
func (h *BasketHandler) GetOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), actor.AccountID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
