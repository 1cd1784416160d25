package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/middleware"
	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/response"
)

// AdminAuthHandler serves dashboard authentication.
type AdminAuthHandler struct {
	service *service.AdminAuthService
}

// NewAdminAuthHandler creates a new handler.
func NewAdminAuthHandler(svc *service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc}
}

// Login godoc
// @Summary Admin login
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "email and password are required"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Current admin identity
// @Tags Admin Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/auth/me [get]
func (h *AdminAuthHandler) Me(c *gin.Context) {
	value, ok := c.Get(middleware.ContextAdminKey)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	claims, ok := value.(*models.AdminClaims)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, models.AdminInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil)
}
