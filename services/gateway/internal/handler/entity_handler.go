package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

// EntityHandler forwards the CRUD routes of one entity
type EntityHandler struct {
	entity *service.Entity
	proxy  service.ProxyService
	logger *zap.Logger
}

func NewEntityHandler(entity *service.Entity, proxy service.ProxyService, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{entity: entity, proxy: proxy, logger: logger}
}

// List godoc
// @Summary      List records in the portal envelope
// @Description  role=User restricts partner accounts to their own company
// @Produce      json
// @Success      200 {object} ListEnvelope
// @Failure      400 {object} ErrorEnvelope
func (h *EntityHandler) List(c *gin.Context) {
	result, err := h.proxy.List(c.Request.Context(), h.entity, callerFrom(c), c.Request.URL.Query())
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendList(c, result.Items, result.Pagination)
}

func (h *EntityHandler) Get(c *gin.Context) {
	data, err := h.proxy.Get(c.Request.Context(), h.entity, callerFrom(c), c.Param("id"))
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, data)
}

func (h *EntityHandler) Create(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	data, err := h.proxy.Create(c.Request.Context(), h.entity, callerFrom(c), body)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusCreated, data)
}

func (h *EntityHandler) Update(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	data, err := h.proxy.Update(c.Request.Context(), h.entity, callerFrom(c), c.Param("id"), body)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, data)
}

func (h *EntityHandler) Delete(c *gin.Context) {
	if err := h.proxy.Delete(c.Request.Context(), h.entity, callerFrom(c), c.Param("id")); err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendMessage(c, h.entity.Name+" deleted")
}

// Approve godoc
// @Summary      Approve a license as the signed-in user
// @Produce      json
// @Param        id path int true "License ID"
// @Success      200 {object} ItemEnvelope
// @Router       /license/{id}/approve [put]
func (h *EntityHandler) Approve(c *gin.Context) {
	data, err := h.proxy.Approve(c.Request.Context(), h.entity, callerFrom(c), c.Param("id"))
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, data)
}

// Balance returns a partner's credit balance
func (h *EntityHandler) Balance(c *gin.Context) {
	h.fetch(c, "balance", c.Param("partnerId"))
}

// Download returns a product's ISO download link
func (h *EntityHandler) Download(c *gin.Context) {
	h.fetch(c, c.Param("id"), "download")
}

func (h *EntityHandler) fetch(c *gin.Context, parts ...string) {
	data, err := h.proxy.Fetch(c.Request.Context(), h.entity, callerFrom(c), parts...)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, data)
}

func (h *EntityHandler) readBody(c *gin.Context) (json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		sendBadRequest(c, "Invalid request body")
		return nil, false
	}
	return body, true
}
