package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page    query int    false "Page (default 1)"
// @Param        limit   query int    false "Page size (default 10, max 100)"
// @Param        name    query string false "Name substring"
// @Param        enabled query bool   false "Enabled flag"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /product [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	filter := dto.ProductFilter{Name: request.OptionalString(c, "name")}
	if filter.Enabled, err = request.OptionalBool(c, "enabled"); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	page, err := h.productService.ListProducts(c.Request.Context(), filter, p)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} response.SuccessResponse{data=domain.Product}
// @Failure      404 {object} response.ErrorResponse
// @Router       /product/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, product)
}

// DownloadProduct godoc
// @Summary      ISO download link
// @Description  Presigned object storage URL valid for 15 minutes
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} response.SuccessResponse{data=dto.DownloadResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Router       /product/{id}/download [get]
func (h *ProductHandler) DownloadProduct(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	link, err := h.productService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, link)
}

// CreateProduct godoc
// @Summary      Register a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProductRequest true "Product"
// @Success      201 {object} response.SuccessResponse{data=domain.Product}
// @Failure      400 {object} response.ErrorResponse
// @Router       /product [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Product ID"
// @Param        request body dto.UpdateProductRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.Product}
// @Failure      404 {object} response.ErrorResponse
// @Router       /product/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path int true "Product ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /product/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
