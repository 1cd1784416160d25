package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/response"
)

// SchoolHandler serves the school profile.
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler creates a new handler.
func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// Get godoc
// @Summary Get school profile
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /school [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Update godoc
// @Summary Update school profile
// @Tags School
// @Accept json
// @Produce json
// @Param payload body models.SchoolProfile true "Profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/school [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	var profile models.SchoolProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	if err := h.service.Update(c.Request.Context(), &profile); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
