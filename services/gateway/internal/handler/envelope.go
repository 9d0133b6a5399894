package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

// ItemEnvelope is the portal answer for one record
type ItemEnvelope struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
}

// ListEnvelope is the portal answer for a page of records
type ListEnvelope struct {
	Success    bool               `json:"success"`
	Status     int                `json:"status"`
	Data       interface{}        `json:"data"`
	Pagination service.Pagination `json:"pagination"`
}

// MessageEnvelope is the portal answer for operations without a payload
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorEnvelope is the portal error answer
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func sendItem(c *gin.Context, status int, data interface{}) {
	c.JSON(status, ItemEnvelope{Success: true, Status: status, Data: data})
}

func sendList(c *gin.Context, data interface{}, p service.Pagination) {
	c.JSON(http.StatusOK, ListEnvelope{Success: true, Status: http.StatusOK, Data: data, Pagination: p})
}

func sendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageEnvelope{Success: true, Status: http.StatusOK, Message: message})
}

func sendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Message: message})
}

// sendError keeps the status and message of upstream and identity provider
// answers; transport failures become 500
func sendError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		svcErr *svcclient.Error
		kcErr  *keycloak.Error
		appErr *response.AppError
	)
	switch {
	case errors.As(err, &svcErr):
		c.JSON(svcErr.StatusCode, ErrorEnvelope{Message: svcErr.Message})
	case errors.As(err, &kcErr) && kcErr.StatusCode >= http.StatusBadRequest:
		c.JSON(kcErr.StatusCode, ErrorEnvelope{Message: kcErr.Message})
	case errors.As(err, &appErr):
		c.JSON(response.StatusForCode(appErr.Code), ErrorEnvelope{Message: appErr.Message})
	default:
		logger.Error("Gateway request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Message: "Internal server error"})
	}
}

// callerFrom reads the identity Auth stored on the context
func callerFrom(c *gin.Context) service.Caller {
	caller := service.Caller{
		UserID:   middleware.GetUserID(c),
		Username: middleware.GetUsername(c),
		Token:    middleware.GetToken(c),
	}
	if claims := middleware.GetClaims(c); claims != nil {
		caller.Type = claims.Type
		caller.CompanyID = claims.CompanyID
	}
	return caller
}
