package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const labelSize = 256

type RollController struct {
	DB *gorm.DB
}

func NewRollController(db *gorm.DB) *RollController {
	return &RollController{DB: db}
}

// GetAllRolls -> ?status=in_stock&material=PEBD
func (rc *RollController) GetAllRolls(c *gin.Context) {
	q := rc.DB.WithContext(c.Request.Context()).Order("created_at asc")
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseRollStatus(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		q = q.Where("status = ?", status)
	}
	if material := c.Query("material"); material != "" {
		q = q.Where("material = ?", material)
	}

	var rolls []models.Roll
	if err := q.Find(&rolls).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of rolls", rolls)
}

// CreateRoll registers a roll received from a supplier and gives it a label code.
func (rc *RollController) CreateRoll(c *gin.Context) {
	var body struct {
		Material string  `json:"material" binding:"required"`
		Supplier string  `json:"supplier"`
		WidthMM  int     `json:"width_mm" binding:"gte=0"`
		WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	roll := models.Roll{
		Code:        uuid.New().String(),
		Material:    body.Material,
		Supplier:    body.Supplier,
		WidthMM:     body.WidthMM,
		WeightKg:    body.WeightKg,
		RemainingKg: body.WeightKg,
		Status:      models.RollInStock,
	}
	if err := rc.DB.WithContext(c.Request.Context()).Create(&roll).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Roll registered", roll)
}

func (rc *RollController) findRoll(c *gin.Context) (*models.Roll, bool) {
	id, ok := paramID(c, "roll_id")
	if !ok {
		return nil, false
	}
	var roll models.Roll
	if err := rc.DB.WithContext(c.Request.Context()).First(&roll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("roll not found"))
			return nil, false
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	return &roll, true
}

func (rc *RollController) GetRollByID(c *gin.Context) {
	roll, ok := rc.findRoll(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Roll detail", roll)
}

var (
	errRollConsumed = errors.New("roll already consumed")
	errRollShort    = errors.New("not enough material on roll")
)

// ConsumeRoll takes kg off the roll; a roll with nothing left is consumed.
// The roll row stays locked from read to write.
func (rc *RollController) ConsumeRoll(c *gin.Context) {
	id, ok := paramID(c, "roll_id")
	if !ok {
		return
	}

	var body struct {
		Kg float64 `json:"kg" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var roll models.Roll
	err := rc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&roll, id).Error; err != nil {
			return err
		}
		if roll.Status == models.RollConsumed {
			return errRollConsumed
		}
		if body.Kg > roll.RemainingKg {
			return fmt.Errorf("%w: only %.2f kg left", errRollShort, roll.RemainingKg)
		}

		roll.RemainingKg -= body.Kg
		roll.Status = models.RollInUse
		if roll.RemainingKg <= 0.0001 {
			roll.RemainingKg = 0
			roll.Status = models.RollConsumed
		}
		return tx.Model(&roll).Updates(map[string]interface{}{
			"remaining_kg": roll.RemainingKg,
			"status":       roll.Status,
		}).Error
	})

	switch {
	case err == nil:
		utils.RespondJSON(c, http.StatusOK, "Roll updated", roll)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("roll not found"))
	case errors.Is(err, errRollConsumed), errors.Is(err, errRollShort):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		respondStoreError(c, err)
	}
}

// GetRollLabel renders the roll's identity as a QR code PNG.
func (rc *RollController) GetRollLabel(c *gin.Context) {
	roll, ok := rc.findRoll(c)
	if !ok {
		return
	}

	payload, err := json.Marshal(gin.H{
		"id":        roll.ID,
		"code":      roll.Code,
		"material":  roll.Material,
		"width_mm":  roll.WidthMM,
		"weight_kg": roll.WeightKg,
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	size := labelSize
	if raw := c.Query("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="roll-%s.png"`, roll.Code))
	c.Data(http.StatusOK, "image/png", png)
}
