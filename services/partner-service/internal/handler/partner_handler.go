package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/service"
)

type PartnerHandler struct {
	partnerService service.PartnerService
	logger         *zap.Logger
}

func NewPartnerHandler(partnerService service.PartnerService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, logger: logger}
}

// ListPartners godoc
// @Summary      List partners
// @Tags         partners
// @Produce      json
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Page size (default 10, max 100)"
// @Param        name  query string false "Name substring"
// @Param        level query string false "Level" Enums(PLATINUM, GOLD, SILVER, VAR)
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /partner [get]
func (h *PartnerHandler) ListPartners(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	filter := dto.PartnerFilter{
		Name:  request.OptionalString(c, "name"),
		Level: request.OptionalString(c, "level"),
	}
	page, err := h.partnerService.ListPartners(c.Request.Context(), filter, p)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetPartner godoc
// @Summary      Get a partner
// @Tags         partners
// @Produce      json
// @Param        id path int true "Partner ID"
// @Success      200 {object} response.SuccessResponse{data=domain.Partner}
// @Failure      404 {object} response.ErrorResponse
// @Router       /partner/{id} [get]
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	partner, err := h.partnerService.GetPartner(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, partner)
}

// CreatePartner godoc
// @Summary      Register a partner
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePartnerRequest true "Partner"
// @Success      201 {object} response.SuccessResponse{data=domain.Partner}
// @Failure      400 {object} response.ErrorResponse
// @Router       /partner [post]
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, partner)
}

// UpdatePartner godoc
// @Summary      Update a partner
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Partner ID"
// @Param        request body dto.UpdatePartnerRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.Partner}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /partner/{id} [put]
func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, partner)
}

// DeletePartner godoc
// @Summary      Delete a partner
// @Tags         partners
// @Param        id path int true "Partner ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /partner/{id} [delete]
func (h *PartnerHandler) DeletePartner(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.partnerService.DeletePartner(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
