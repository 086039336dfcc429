package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/services"
	"github.com/yeremiapane/factory-app/utils"
)

type DashboardController struct {
	Planning *services.PlanningService
}

func NewDashboardController(planning *services.PlanningService) *DashboardController {
	return &DashboardController{Planning: planning}
}

func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Planning.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
