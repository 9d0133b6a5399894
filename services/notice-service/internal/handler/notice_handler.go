package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/service"
)

type NoticeHandler struct {
	noticeService service.NoticeService
	logger        *zap.Logger
}

func NewNoticeHandler(noticeService service.NoticeService, logger *zap.Logger) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService, logger: logger}
}

// ListNotices godoc
// @Summary      List notices
// @Tags         notices
// @Produce      json
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 10, max 100)"
// @Param        title      query string false "Title substring"
// @Param        level      query string false "Level" Enums(ALL, PLATINUM, GOLD, SILVER, VAR)
// @Param        company_id query int    false "Partner ID; notices without a company are included"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /notice [get]
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	filter := dto.NoticeFilter{
		Title: request.OptionalString(c, "title"),
		Level: request.OptionalString(c, "level"),
	}
	if filter.CompanyID, err = request.OptionalUint(c, "company_id"); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	page, err := h.noticeService.ListNotices(c.Request.Context(), filter, p)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetNotice godoc
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Param        id path int true "Notice ID"
// @Success      200 {object} response.SuccessResponse{data=domain.Notice}
// @Failure      404 {object} response.ErrorResponse
// @Router       /notice/{id} [get]
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	notice, err := h.noticeService.GetNotice(c.Request.Context(), id)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, notice)
}

// CreateNotice godoc
// @Summary      Publish a notice
// @Description  The caller becomes the writer
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateNoticeRequest true "Notice"
// @Success      201 {object} response.SuccessResponse{data=domain.Notice}
// @Failure      400 {object} response.ErrorResponse
// @Router       /notice [post]
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req dto.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	notice, err := h.noticeService.CreateNotice(c.Request.Context(), &req, middleware.GetUsername(c))
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, notice)
}

// UpdateNotice godoc
// @Summary      Update a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "Notice ID"
// @Param        request body dto.UpdateNoticeRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.Notice}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /notice/{id} [put]
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	var req dto.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	notice, err := h.noticeService.UpdateNotice(c.Request.Context(), id, &req)
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, notice)
}

// DeleteNotice godoc
// @Summary      Delete a notice
// @Tags         notices
// @Param        id path int true "Notice ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /notice/{id} [delete]
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	if err := h.noticeService.DeleteNotice(c.Request.Context(), id); err != nil {
		response.HandleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"id": id})
}
