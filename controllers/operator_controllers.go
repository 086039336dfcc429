package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/utils"
	"gorm.io/gorm"
)

var operatorShifts = map[string]bool{"day": true, "night": true, "swing": true}

type OperatorController struct {
	DB *gorm.DB
}

func NewOperatorController(db *gorm.DB) *OperatorController {
	return &OperatorController{DB: db}
}

type operatorRequest struct {
	Name      string `json:"name" binding:"required"`
	Shift     string `json:"shift"`
	MachineID *uint  `json:"machine_id"`
	Active    *bool  `json:"active"`
}

// validate checks the shift and that the machine exists.
func (oc *OperatorController) validate(c *gin.Context, req *operatorRequest) bool {
	if req.Shift == "" {
		req.Shift = "day"
	}
	if !operatorShifts[req.Shift] {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown shift %q", req.Shift))
		return false
	}
	if req.MachineID != nil {
		var count int64
		err := oc.DB.WithContext(c.Request.Context()).Model(&models.Machine{}).Where("id = ?", *req.MachineID).Count(&count).Error
		if err != nil {
			respondStoreError(c, err)
			return false
		}
		if count == 0 {
			utils.RespondError(c, http.StatusNotFound, errors.New("machine not found"))
			return false
		}
	}
	return true
}

func (oc *OperatorController) GetAllOperators(c *gin.Context) {
	q := oc.DB.WithContext(c.Request.Context()).Preload("Machine").Order("name asc")
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var operators []models.Operator
	if err := q.Find(&operators).Error; err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of operators", operators)
}

func (oc *OperatorController) CreateOperator(c *gin.Context) {
	var req operatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !oc.validate(c, &req) {
		return
	}

	operator := models.Operator{
		Name:      req.Name,
		Shift:     req.Shift,
		MachineID: req.MachineID,
		Active:    req.Active == nil || *req.Active,
	}
	err := oc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&operator).Error; err != nil {
			return err
		}
		// gorm skips zero values that carry a default, so persist inactive explicitly
		if !operator.Active {
			return tx.Model(&operator).Update("active", false).Error
		}
		return nil
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Operator created", operator)
}

func (oc *OperatorController) UpdateOperator(c *gin.Context) {
	id, ok := paramID(c, "operator_id")
	if !ok {
		return
	}

	var operator models.Operator
	if err := oc.DB.WithContext(c.Request.Context()).First(&operator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("operator not found"))
			return
		}
		respondStoreError(c, err)
		return
	}

	var req operatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !oc.validate(c, &req) {
		return
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"shift":      req.Shift,
		"machine_id": req.MachineID,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if err := oc.DB.WithContext(c.Request.Context()).Model(&operator).Updates(updates).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	if err := oc.DB.WithContext(c.Request.Context()).Preload("Machine").First(&operator, id).Error; err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operator updated", operator)
}

func (oc *OperatorController) DeleteOperator(c *gin.Context) {
	id, ok := paramID(c, "operator_id")
	if !ok {
		return
	}

	res := oc.DB.WithContext(c.Request.Context()).Delete(&models.Operator{}, id)
	if res.Error != nil {
		respondStoreError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("operator not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operator deleted", nil)
}
