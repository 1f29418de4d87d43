package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/httpresp"
	"github.com/fekuna/omnipos-mrp-service/internal/order"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)
	orders.GET("/:order_id", h.GetOrder)
	orders.DELETE("/:order_id", h.DeleteOrder)
	orders.PUT("/:order_id/status", h.TransitionOrder)

	rg.DELETE("/quotations", h.DeleteAllQuotations)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input dto.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	o, err := h.uc.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to create order", err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to get order", err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := httpresp.Page(c)
	orders, total, err := h.uc.ListOrders(c.Request.Context(), &dto.OrderFilters{
		Type:     c.Query("type"),
		View:     c.Query("view"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		httpresp.Error(c, h.logger, "failed to list orders", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) TransitionOrder(c *gin.Context) {
	var input dto.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}
	input.OrderID = c.Param("order_id")

	result, err := h.uc.TransitionOrder(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to transition order", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	o, err := h.uc.DeleteOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to delete order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": o})
}

func (h *OrderHandler) DeleteAllQuotations(c *gin.Context) {
	count, err := h.uc.DeleteAllQuotations(c.Request.Context())
	if err != nil {
		httpresp.Error(c, h.logger, "failed to delete quotations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
