package handlers

import (
	"net/http"

	"github.com/Dosada05/padel-club/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: ds,
	}
}

// GetDashboard отдаёт агрегированный главный экран клуба.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
