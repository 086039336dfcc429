package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/utils"
)

type OrderController struct {
	Store repository.Store
}

func NewOrderController(store repository.Store) *OrderController {
	return &OrderController{Store: store}
}

// GetAllOrders -> ?status=pending,in_production&priority=urgent&page=1&page_size=50
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var filter repository.OrderFilter

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := models.ParseOrderStatus(part)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.Priority = priority
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid customer_id"))
			return
		}
		filter.CustomerID = uint(id)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(repository.DefaultPageSize)))
	filter.Page = repository.Page{Page: page, PageSize: size}.Normalize()

	orders, total, err := oc.Store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, "List of orders", orders, utils.PageMeta{
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
		Total:    total,
	})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Store.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder changes status, priority, delivery date or notes. Absent fields are left alone.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Status       *models.OrderStatus `json:"status"`
		Priority     *models.Priority    `json:"priority"`
		DeliveryDate *string             `json:"delivery_date"`
		Notes        *string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if (body.Status != nil && *body.Status == "") || (body.Priority != nil && *body.Priority == "") {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status and priority cannot be empty"))
		return
	}

	changes := repository.OrderChanges{
		Status:   body.Status,
		Priority: body.Priority,
		Notes:    body.Notes,
	}
	if body.DeliveryDate != nil {
		d, err := time.Parse(models.WeekLayout, *body.DeliveryDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("delivery_date must be YYYY-MM-DD"))
			return
		}
		changes.DeliveryDate = &d
	}

	order, err := oc.Store.UpdateOrder(c.Request.Context(), id, changes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (oc *OrderController) UpdateItemProgress(c *gin.Context) {
	id, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	var body struct {
		Produced *int `json:"produced" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if *body.Produced < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("produced must not be negative"))
		return
	}

	item, err := oc.Store.UpdateOrderItemProgress(c.Request.Context(), id, *body.Produced)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Progress updated", gin.H{
		"item":     item,
		"progress": item.Progress(),
	})
}
