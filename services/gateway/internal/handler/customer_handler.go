package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

type CustomerHandler struct {
	customerService service.CustomerService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, logger: logger}
}

// GetCustomer godoc
// @Summary      Customer detail with its manager and the manager's company
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} ItemEnvelope
// @Failure      404 {object} ErrorEnvelope
// @Router       /customer/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, customer)
}
