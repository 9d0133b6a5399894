package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/service"
)

type CreditHandler struct {
	creditService service.CreditService
	logger        *zap.Logger
}

func NewCreditHandler(creditService service.CreditService, logger *zap.Logger) *CreditHandler {
	return &CreditHandler{creditService: creditService, logger: logger}
}

// ListCredits godoc
// @Summary      List credit ledger entries
// @Tags         credits
// @Produce      json
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 10, max 100)"
// @Param        partner_id  query int    false "Partner ID"
// @Param        business_id query int    false "Business ID"
// @Param        type        query string false "Entry type" Enums(deposit, credit)
// @Param        partner     query string false "Partner name substring"
// @Param        business    query string false "Business name substring"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /credit [get]
func (h *CreditHandler) ListCredits(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var filter dto.CreditFilter
	if filter.PartnerID, err = request.OptionalUint(c, "partner_id"); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}
	if filter.BusinessID, err = request.OptionalUint(c, "business_id"); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}
	filter.Type = request.OptionalString(c, "type")
	filter.PartnerName = request.OptionalString(c, "partner")
	filter.BusinessName = request.OptionalString(c, "business")

	page, err := h.creditService.ListCredits(c.Request.Context(), filter, p, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetCredit godoc
// @Summary      Get a ledger entry
// @Tags         credits
// @Produce      json
// @Param        id path int true "Credit ID"
// @Success      200 {object} response.SuccessResponse{data=dto.CreditResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /credit/{id} [get]
func (h *CreditHandler) GetCredit(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	credit, err := h.creditService.GetCredit(c.Request.Context(), id, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, credit)
}

// GetBalance godoc
// @Summary      Partner balance
// @Description  Sum of deposits minus sum of credits over live entries
// @Tags         credits
// @Produce      json
// @Param        partnerId path int true "Partner ID"
// @Success      200 {object} response.SuccessResponse{data=dto.BalanceResponse}
// @Router       /credit/balance/{partnerId} [get]
func (h *CreditHandler) GetBalance(c *gin.Context) {
	partnerID, err := request.ParseID(c, "partnerId")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	balance, err := h.creditService.GetBalance(c.Request.Context(), partnerID)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, balance)
}

// CreateCredit godoc
// @Summary      Record a deposit or a spend
// @Description  Exactly one of deposit and credit must be positive
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCreditRequest true "Ledger entry"
// @Success      201 {object} response.SuccessResponse{data=dto.CreditResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /credit [post]
func (h *CreditHandler) CreateCredit(c *gin.Context) {
	var req dto.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	credit, err := h.creditService.CreateCredit(c.Request.Context(), &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, credit)
}

// UpdateCredit godoc
// @Summary      Update a ledger entry
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "Credit ID"
// @Param        request body dto.UpdateCreditRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.CreditResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /credit/{id} [put]
func (h *CreditHandler) UpdateCredit(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	credit, err := h.creditService.UpdateCredit(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, credit)
}

// DeleteCredit godoc
// @Summary      Delete a ledger entry
// @Tags         credits
// @Param        id path int true "Credit ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /credit/{id} [delete]
func (h *CreditHandler) DeleteCredit(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.creditService.DeleteCredit(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
