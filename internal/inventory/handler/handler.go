package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/httpresp"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	inv.POST("/adjust", h.AdjustStock)
	inv.GET("/movements", h.ListMovements)
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var input dto.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	p, err := h.uc.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to adjust stock", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, pageSize := httpresp.Page(c)
	movements, total, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		ProductCode:  c.Query("product_code"),
		MovementType: c.Query("movement_type"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		httpresp.Error(c, h.logger, "failed to list stock movements", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, movements)
}
