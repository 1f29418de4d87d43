package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/httpresp"
	"github.com/fekuna/omnipos-mrp-service/internal/wip"
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type WipHandler struct {
	uc     wip.UseCase
	logger logger.ZapLogger
}

func NewWipHandler(uc wip.UseCase, log logger.ZapLogger) *WipHandler {
	return &WipHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *WipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/wip")
	g.GET("", h.ListBatches)
	g.POST("", h.CreateBatch)
	g.GET("/:batch_number", h.GetBatch)
	g.PUT("/:batch_number/complete", h.CompleteBatch)
	g.POST("/:batch_number/complete", h.CompleteBatch)
}

func (h *WipHandler) CreateBatch(c *gin.Context) {
	var input dto.CreateBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	summary, err := h.uc.CreateBatch(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to create wip batch", err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *WipHandler) CompleteBatch(c *gin.Context) {
	var input dto.CompleteBatchInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			httpresp.BadRequest(c, "invalid input: "+err.Error())
			return
		}
	}
	input.BatchNumber = c.Param("batch_number")

	summary, err := h.uc.CompleteBatch(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to complete wip batch", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *WipHandler) GetBatch(c *gin.Context) {
	b, err := h.uc.GetBatch(c.Request.Context(), c.Param("batch_number"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to get wip batch", err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *WipHandler) ListBatches(c *gin.Context) {
	page, pageSize := httpresp.Page(c)
	batches, total, err := h.uc.ListBatches(c.Request.Context(), &dto.BatchFilters{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		httpresp.Error(c, h.logger, "failed to list wip batches", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, batches)
}
