package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitfunnel/internal/services"
	"fitfunnel/pkg/utils"
)

type PlansController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewPlansController(recommendationService services.RecommendationServiceInterface) *PlansController {
	return &PlansController{recommendationService: recommendationService}
}

func (p *PlansController) ListPlans(c *gin.Context) {
	utils.RespondSuccess(c, p.recommendationService.Plans(), "Plans fetched successfully")
}

func (p *PlansController) GetPlan(c *gin.Context) {
	plan, ok := p.recommendationService.PlanByID(c.Param("id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "Plan not found")
		return
	}
	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}
