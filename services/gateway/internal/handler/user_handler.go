package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/pagination"
	"github.com/ablecloud-team/ablecloud-crm/pkg/request"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// ListUsers godoc
// @Summary      List portal accounts with role and company
// @Tags         users
// @Produce      json
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 10, max 100)"
// @Param        search query string false "Username, name or email"
// @Success      200 {object} ListEnvelope
// @Router       /user [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, err := request.Pagination(c)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}

	filter := dto.UserFilter{Search: request.OptionalString(c, "search")}
	page, err := h.userService.ListUsers(c.Request.Context(), callerFrom(c), filter, p)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendList(c, page.Items, portalPagination(page))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, user)
}

// CreateUser godoc
// @Summary      Register a portal account and grant its realm role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUserRequest true "Account"
// @Success      201 {object} ItemEnvelope
// @Failure      400 {object} ErrorEnvelope
// @Failure      401 {object} ErrorEnvelope
// @Failure      409 {object} ErrorEnvelope
// @Router       /user [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), callerFrom(c), c.Param("id"), &req)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendItem(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendMessage(c, "user deleted")
}

func portalPagination[T any](page *pagination.Page[T]) service.Pagination {
	return service.Pagination{
		CurrentPage:  page.Page,
		ItemsPerPage: page.Limit,
		TotalPages:   page.TotalPages,
		TotalItems:   page.Total,
	}
}
