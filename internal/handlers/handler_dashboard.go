package handlers

import (
	"net/http"

	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService *services.DashboardService
}

func newDashboardHandler(ds *services.DashboardService) *dashboardHandler {
	return &dashboardHandler{dashboardService: ds}
}

// getDashboard godoc
// @Summary Dashboard statistics
// @Description Per collection: total count, amount total and the five most recent records
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
