package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

type AnalysisController struct {
	analysisService services.AnalysisServiceInterface
	logger          *zap.Logger
}

func NewAnalysisController(analysisService services.AnalysisServiceInterface, logger *zap.Logger) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
		logger:          logger,
	}
}

// Analyze godoc
// @Summary Generate a personalized analysis
// @Description Returns the analysis object itself, or {error, details} when generation fails.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body request_models.Profile true "Profile"
// @Success 200 {object} response_models.AnalysisResult
// @Failure 500 {object} utils.ErrorEnvelope
// @Router /api/analysis [post]
func (a *AnalysisController) Analyze(c *gin.Context) {
	var profile request_models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorEnvelope{Error: "Invalid profile", Details: err.Error()})
		return
	}

	result, err := a.analysisService.Analyze(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidProfile) {
			c.JSON(http.StatusBadRequest, utils.ErrorEnvelope{Error: "Invalid profile", Details: err.Error()})
			return
		}
		a.logger.Error("analysis failed", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorEnvelope{Error: "Failed to generate analysis", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
