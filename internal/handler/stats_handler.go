package handler

import (
	"github.com/gin-gonic/gin"

	"tradebook/internal/service"
)

// StatsHandler handles dashboard endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats
// @Summary Get sales dashboard
// @Description Today's and yesterday's sales, lifetime totals, total outstanding across customers and the last twelve months of sales.
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.SalesStats} "Sales summary"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetSalesStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
