package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-mrp-service/internal/httpresp"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

// PartyHandler serves one directory namespace, customers or suppliers.
type PartyHandler struct {
	uc     party.UseCase
	kind   model.PartyKind
	logger logger.ZapLogger
}

func NewPartyHandler(uc party.UseCase, kind model.PartyKind, log logger.ZapLogger) *PartyHandler {
	return &PartyHandler{
		uc:     uc,
		kind:   kind,
		logger: log,
	}
}

func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + string(h.kind) + "s")
	g.GET("", h.ListParties)
	g.POST("", h.CreateParty)
	g.GET("/:id", h.GetParty)
	g.DELETE("/:id", h.DeleteParty)
}

func (h *PartyHandler) ListParties(c *gin.Context) {
	page, pageSize := httpresp.Page(c)
	parties, total, err := h.uc.ListParties(c.Request.Context(), &dto.PartyFilters{
		Kind:     h.kind,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		httpresp.Error(c, h.logger, "failed to list parties", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, parties)
}

func (h *PartyHandler) CreateParty(c *gin.Context) {
	var input dto.CreatePartyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpresp.BadRequest(c, "invalid input: "+err.Error())
		return
	}
	input.Kind = h.kind

	p, err := h.uc.CreateParty(c.Request.Context(), &input)
	if err != nil {
		httpresp.Error(c, h.logger, "failed to create party", err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *PartyHandler) GetParty(c *gin.Context) {
	p, err := h.uc.GetParty(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to get party", err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PartyHandler) DeleteParty(c *gin.Context) {
	p, err := h.uc.DeleteParty(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		httpresp.Error(c, h.logger, "failed to delete party", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": p})
}
