package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/response"
)

// DashboardHandler serves aggregate counts for the admin UI.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Aggregate student, session and file counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, cached, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cache": cached})
}
