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

type CustomerHandler struct {
	customerService service.CustomerService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, logger: logger}
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        page               query int    false "Page (default 1)"
// @Param        limit              query int    false "Page size (default 10, max 100)"
// @Param        name               query string false "Name substring"
// @Param        manager_id         query string false "Managing user ID"
// @Param        manager_company_id query string false "Managing partner ID"
// @Success      200 {object} response.SuccessResponse
// @Router       /customer [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	filter := dto.CustomerFilter{
		Name:             request.OptionalString(c, "name"),
		ManagerID:        request.OptionalString(c, "manager_id"),
		ManagerCompanyID: request.OptionalString(c, "manager_company_id"),
	}
	page, err := h.customerService.ListCustomers(c.Request.Context(), filter, p)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetCustomer godoc
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} response.SuccessResponse{data=domain.Customer}
// @Failure      404 {object} response.ErrorResponse
// @Router       /customer/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, customer)
}

// CreateCustomer godoc
// @Summary      Register a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCustomerRequest true "Customer"
// @Success      201 {object} response.SuccessResponse{data=domain.Customer}
// @Failure      400 {object} response.ErrorResponse
// @Router       /customer [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, customer)
}

// UpdateCustomer godoc
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path int                       true "Customer ID"
// @Param        request body dto.UpdateCustomerRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.Customer}
// @Failure      404 {object} response.ErrorResponse
// @Router       /customer/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, customer)
}

// DeleteCustomer godoc
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path int true "Customer ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /customer/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
