package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/factory-app/services"
	"github.com/yeremiapane/factory-app/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PlanningController struct {
	Planning *services.PlanningService
}

func NewPlanningController(planning *services.PlanningService) *PlanningController {
	return &PlanningController{Planning: planning}
}

func (pc *PlanningController) week(c *gin.Context) (time.Time, bool) {
	week, err := services.ParseWeek(c.Param("week"), pc.Planning.Now())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return time.Time{}, false
	}
	return week, true
}

// GetWeek -> machines with their plans plus the unassigned backlog
func (pc *PlanningController) GetWeek(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}
	view, err := pc.Planning.LoadWeek(c.Request.Context(), week)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Planning week", view)
}

func (pc *PlanningController) GetMachinePlan(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}
	machineID, ok := paramID(c, "machine_id")
	if !ok {
		return
	}
	plan, err := pc.Planning.GetPlan(c.Request.Context(), week, machineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Machine plan", plan)
}

func (pc *PlanningController) Assign(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}

	var body struct {
		OrderItemID uint `json:"order_item_id" binding:"required"`
		MachineID   uint `json:"machine_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	plan, err := pc.Planning.Assign(c.Request.Context(), week, body.OrderItemID, body.MachineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order line assigned", plan)
}

func (pc *PlanningController) Unassign(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	if err := pc.Planning.Unassign(c.Request.Context(), week, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order line unassigned", nil)
}

func (pc *PlanningController) UpdateMachinePlan(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}
	machineID, ok := paramID(c, "machine_id")
	if !ok {
		return
	}

	var body struct {
		Notes               string  `json:"notes"`
		EstimatedEfficiency float64 `json:"estimated_efficiency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	plan, err := pc.Planning.UpdatePlanDetails(c.Request.Context(), week, machineID, body.Notes, body.EstimatedEfficiency)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plan updated", plan)
}

// ExportWeek streams the week as an xlsx workbook.
func (pc *PlanningController) ExportWeek(c *gin.Context) {
	week, ok := pc.week(c)
	if !ok {
		return
	}
	view, err := pc.Planning.LoadWeek(c.Request.Context(), week)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	wb, err := services.WritePlanWorkbook(view)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	defer func() {
		if err := wb.Close(); err != nil {
			utils.InfoLogger.WithError(err).Warn("Error closing workbook")
		}
	}()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="plan-%s.xlsx"`, view.WeekStart))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := wb.Write(c.Writer); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"week": view.WeekStart}).WithError(err).Error("Error writing workbook")
	}
}
