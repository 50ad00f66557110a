package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/httpresp"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

type DashboardHandler struct {
	dashboard *ucReservation.OwnerDashboard
}

func NewDashboardHandler(dashboard *ucReservation.OwnerDashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Owner(c *gin.Context) {
	d, err := h.dashboard.Execute(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_dashboard", "Erro ao carregar painel.")
		return
	}

	httpresp.OK(c, d)
}
