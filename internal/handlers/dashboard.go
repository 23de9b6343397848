package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/m1z23r/drift/pkg/drift"
)

type DashboardHandler struct {
	dashboardService DashboardServiceInterface
}

func NewDashboardHandler(dashboardService DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Overview(c *drift.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}
	_ = c.JSON(200, overview)
}

func (h *DashboardHandler) Owner(c *drift.Context) {
	overview, err := h.dashboardService.Owner(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, err, "load owner dashboard")
		return
	}
	_ = c.JSON(200, overview)
}
