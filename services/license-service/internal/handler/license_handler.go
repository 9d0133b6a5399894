package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/service"
)

type LicenseHandler struct {
	licenseService service.LicenseService
	logger         *zap.Logger
}

func NewLicenseHandler(licenseService service.LicenseService, logger *zap.Logger) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
		logger:         logger,
	}
}

// ListLicenses godoc
// @Summary      List licenses
// @Tags         licenses
// @Produce      json
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 10, max 100)"
// @Param        productId   query int    false "Product ID"
// @Param        productType query string false "Product type" Enums(vm, bare-metal, container)
// @Param        businessId  query int    false "Business ID"
// @Param        companyId   query int    false "Partner company ID"
// @Param        trial       query bool   false "Trial licenses only"
// @Param        licenseKey  query string false "License key substring"
// @Param        status      query string false "Status" Enums(inactive, active, expired)
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /license [get]
func (h *LicenseHandler) ListLicenses(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	page, err := h.licenseService.ListLicenses(c.Request.Context(), filter, p, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

func parseFilter(c *gin.Context) (dto.LicenseFilter, error) {
	var (
		f   dto.LicenseFilter
		err error
	)
	if f.ProductID, err = request.OptionalUint(c, "productId"); err != nil {
		return f, err
	}
	if f.BusinessID, err = request.OptionalUint(c, "businessId"); err != nil {
		return f, err
	}
	if f.CompanyID, err = request.OptionalUint(c, "companyId"); err != nil {
		return f, err
	}
	if f.Trial, err = request.OptionalBool(c, "trial"); err != nil {
		return f, err
	}
	f.ProductType = request.OptionalString(c, "productType")
	f.LicenseKey = request.OptionalString(c, "licenseKey")
	f.Status = request.OptionalString(c, "status")
	return f, nil
}

// GetLicense godoc
// @Summary      Get a license
// @Tags         licenses
// @Produce      json
// @Param        id path int true "License ID"
// @Success      200 {object} response.SuccessResponse{data=dto.LicenseResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /license/{id} [get]
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	license, err := h.licenseService.GetLicense(c.Request.Context(), id, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, license)
}

// CreateLicense godoc
// @Summary      Register a license
// @Description  license_key is generated when omitted; the caller becomes the issuer
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateLicenseRequest true "License"
// @Success      201 {object} response.SuccessResponse{data=dto.LicenseResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /license [post]
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	var req dto.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issuer := dto.Issuer{ID: middleware.GetUserID(c), Name: middleware.GetUsername(c)}
	license, err := h.licenseService.CreateLicense(c.Request.Context(), &req, issuer, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, license)
}

// UpdateLicense godoc
// @Summary      Update a license
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "License ID"
// @Param        request body dto.UpdateLicenseRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.LicenseResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /license/{id} [put]
func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	license, err := h.licenseService.UpdateLicense(c.Request.Context(), id, &req, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, license)
}

// DeleteLicense godoc
// @Summary      Delete a license
// @Tags         licenses
// @Param        id path int true "License ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /license/{id} [delete]
func (h *LicenseHandler) DeleteLicense(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.licenseService.DeleteLicense(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ApproveLicense godoc
// @Summary      Approve a license
// @Description  Sets the license active. approve_user defaults to the caller.
// @Tags         licenses
// @Accept       json
// @Produce      json
// @Param        id      path int                       true  "License ID"
// @Param        request body dto.ApproveLicenseRequest false "Approver"
// @Success      200 {object} response.SuccessResponse{data=dto.LicenseResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /license/{id}/approve [put]
func (h *LicenseHandler) ApproveLicense(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.ApproveLicenseRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
			return
		}
	}
	if req.ApproveUser == "" {
		req.ApproveUser = middleware.GetUsername(c)
	}

	license, err := h.licenseService.ApproveLicense(c.Request.Context(), id, req.ApproveUser, middleware.GetToken(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, license)
}
