package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/httpresp"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/product"
	"github.com/fekuna/omnipos-mrp-service/internal/product/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type ProductHandler struct {
	uc        product.UseCase
	inventory inventory.UseCase
	logger    logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, inv inventory.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:        uc,
		inventory: inv,
		logger:    log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/:code", h.GetProduct)
	products.PUT("/:code", h.UpdateProduct)
	products.DELETE("/:code", h.DeleteProduct)
	products.POST("/:code/adjust", h.AdjustStock)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, pageSize := httpresp.Page(c)
	filters := &dto.ProductFilters{
		Category:    c.Query("category"),
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	}
	if raw := c.Query("is_raw_material"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			httpresp.BadRequest(c, "is_raw_material must be a boolean")
			return
		}
		filters.IsRawMaterial = &b
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to list products", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("code"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to get product", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}
	input.ProductCode = c.Param("code")

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	code := c.Param("code")
	if err := h.uc.DeleteProduct(c.Request.Context(), code); err != nil {
		httpresp.Error(c, h.logger, "failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": code})
}

// AdjustStock is the path-addressed form of POST /api/inventory/adjust.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var input invdto.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}
	input.ProductCode = c.Param("code")

	p, err := h.inventory.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to adjust stock", err)
		return
	}

	c.JSON(http.StatusOK, p)
}
