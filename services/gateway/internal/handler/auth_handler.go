package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/dto"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login godoc
// @Summary      Sign in with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} dto.TokenResponse
// @Failure      401 {object} ErrorEnvelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "Username and password are required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "refresh_token is required")
		return
	}

	token, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		sendError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "refresh_token is required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		sendError(c, h.logger, err)
		return
	}
	sendMessage(c, "logged out")
}
