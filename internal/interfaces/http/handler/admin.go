package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/importapp"
	apptrade "github.com/shopfront/backend/internal/application/trade"
)

// AdminHandler serves staff operations
type AdminHandler struct {
	BaseHandler
	importer     *importapp.FeedImporter
	orderService *apptrade.OrderService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(importer *importapp.FeedImporter, orderService *apptrade.OrderService) *AdminHandler {
	return &AdminHandler{importer: importer, orderService: orderService}
}

// ImportCatalog godoc
// @Summary      Import a catalog on behalf of a shop account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body importapp.AdminImportRequest true "Shop account and feed URL"
// @Success      202 {object} dto.Response{Data=importapp.ImportAccepted}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/import [post]
func (h *AdminHandler) ImportCatalog(c *gin.Context) {
	var req importapp.AdminImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	jobID, err := h.importer.SubmitImport(c.Request.Context(), req.AccountID, req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, importapp.ImportAccepted{JobID: jobID})
}

// ListOrders godoc
// @Summary      List all orders
// @Description  Placed orders of every account; status=basket lists open baskets
// @Tags         admin
// @Produce      json
// @Param        status    query string false "Status filter" Enums(basket, new, confirmed, assembled, sent, delivered, canceled)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(50)
// @Success      200 {object} dto.Response{Data=[]apptrade.OrderResponse,Meta=dto.Meta}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var f apptrade.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.BindError(c, err)
		return
	}
	orders, total, err := h.orderService.ListAllOrders(c.Request.Context(), actor, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pagination(f.Page, f.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// SetOrderStatus godoc
// @Summary      Move any order to a new status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Order ID" format(uuid)
// @Param        request body apptrade.SetStatusRequest true "Target status"
// @Success      200 {object} dto.Response{Data=apptrade.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	setOrderStatus(&h.BaseHandler, h.orderService, c)
}
