package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/utils"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

func (pc *ProductController) GetAllProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.WithContext(c.Request.Context()).Order("code asc").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var body struct {
		Code     string `json:"code" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Material string `json:"material"`
		WidthMM  int    `json:"width_mm" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(body.Code))
	var existing int64
	pc.DB.WithContext(c.Request.Context()).Model(&models.Product{}).Where("code = ?", code).Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("product %s already exists", code))
		return
	}

	product := models.Product{
		Code:     code,
		Name:     body.Name,
		Material: body.Material,
		WidthMM:  body.WidthMM,
	}
	if err := pc.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}

	var product models.Product
	if err := pc.DB.WithContext(c.Request.Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}
