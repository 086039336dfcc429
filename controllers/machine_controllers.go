package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/utils"
)

type MachineController struct {
	Store repository.Store
}

func NewMachineController(store repository.Store) *MachineController {
	return &MachineController{Store: store}
}

func (mc *MachineController) GetMachines(c *gin.Context) {
	machines, err := mc.Store.ListMachines(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of machines", machines)
}

func (mc *MachineController) GetMachineByID(c *gin.Context) {
	id, ok := paramID(c, "machine_id")
	if !ok {
		return
	}
	machine, err := mc.Store.GetMachine(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Machine detail", machine)
}

// UpdateMachineStatus accepts any known spelling of a status and stores the canonical one.
func (mc *MachineController) UpdateMachineStatus(c *gin.Context) {
	id, ok := paramID(c, "machine_id")
	if !ok {
		return
	}

	var body struct {
		Status models.MachineStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	machine, err := mc.Store.UpdateMachineStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.WithField("machine_id", id).Infof("Machine status set to %s", machine.Status)
	utils.RespondJSON(c, http.StatusOK, "Machine status updated", machine)
}
