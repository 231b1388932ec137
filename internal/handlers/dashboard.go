package handlers

import (
	"net/http"

	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats godoc
// @Summary     Dashboard counts
// @Description Total projects, projects awaiting payment and total clients.
// @Tags        dashboard
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DashboardStats
// @Failure     500 {object} models.ErrorResponse
// @Router      /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
