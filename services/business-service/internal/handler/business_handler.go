package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/service"
)

type BusinessHandler struct {
	businessService service.BusinessService
	logger          *zap.Logger
}

func NewBusinessHandler(businessService service.BusinessService, logger *zap.Logger) *BusinessHandler {
	return &BusinessHandler{businessService: businessService, logger: logger}
}

// ListBusinesses godoc
// @Summary      List businesses
// @Tags         businesses
// @Produce      json
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Page size (default 10, max 100)"
// @Param        name      query string false "Name substring"
// @Param        available query bool   false "Only businesses without a license"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /business [get]
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	available, err := request.OptionalBool(c, "available")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}
	filter := dto.BusinessFilter{
		Name:      request.OptionalString(c, "name"),
		Available: available != nil && *available,
	}

	page, err := h.businessService.ListBusinesses(c.Request.Context(), filter, p)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetBusiness godoc
// @Summary      Get a business
// @Tags         businesses
// @Produce      json
// @Param        id path int true "Business ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /business/{id} [get]
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, business)
}

// CreateBusiness godoc
// @Summary      Register a business
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBusinessRequest true "Business"
// @Success      201 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /business [post]
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	var req dto.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, business)
}

// UpdateBusiness godoc
// @Summary      Update a business
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        id      path int                       true "Business ID"
// @Param        request body dto.UpdateBusinessRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.BusinessResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /business/{id} [put]
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, business)
}

// DeleteBusiness godoc
// @Summary      Delete a business
// @Tags         businesses
// @Param        id path int true "Business ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /business/{id} [delete]
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.businessService.DeleteBusiness(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
