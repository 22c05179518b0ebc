package controllers

import (
	"net/http"
	"strconv"

	"github.com/upkeephq/upkeep/internal/services"
	"github.com/upkeephq/upkeep/internal/utils"
)

type MetricsController struct {
	metricsService *services.MetricsService
}

func NewMetricsController(s *services.MetricsService) *MetricsController {
	return &MetricsController{metricsService: s}
}

// GET /metrics/overview
func (c *MetricsController) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := c.metricsService.Overview(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, overview)
}

// GET /metrics/requests-by-status
func (c *MetricsController) RequestsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := c.metricsService.ByStatus(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// GET /metrics/requests-by-priority
func (c *MetricsController) RequestsByPriorityHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := c.metricsService.ByPriority(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// GET /metrics/requests-over-time?days=N
func (c *MetricsController) RequestsOverTimeHandler(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	rows, err := c.metricsService.OverTime(r.Context(), days)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// GET /metrics/building-performance
func (c *MetricsController) BuildingPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := c.metricsService.BuildingPerformance(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// GET /metrics/staff-performance
func (c *MetricsController) StaffPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := c.metricsService.StaffPerformance(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
