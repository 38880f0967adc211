package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

type MetricsController struct {
	metricsService services.MetricsServiceInterface
}

func NewMetricsController(metricsService services.MetricsServiceInterface) *MetricsController {
	return &MetricsController{metricsService: metricsService}
}

// Calculate godoc
// @Summary Compute BMI, BMR, protein and water targets
// @Tags Metrics
// @Accept json
// @Produce json
// @Param request body request_models.MetricsRequest true "Measures"
// @Success 200 {object} response_models.MetricsResponse
// @Router /api/metrics [post]
func (m *MetricsController) Calculate(c *gin.Context) {
	var req request_models.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp := m.metricsService.Calculate(req)
	utils.RespondSuccess(c, resp, resp.Message)
}
