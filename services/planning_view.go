package services

import (
	"time"

	"github.com/yeremiapane/factory-app/models"
)

// LineView is an order line as shown on the planning board.
type LineView struct {
	OrderItemID       uint               `json:"order_item_id"`
	OrderID           uint               `json:"order_id"`
	OrderNumber       string             `json:"order_number"`
	CustomerName      string             `json:"customer_name"`
	ProductCode       string             `json:"product_code"`
	ProductName       string             `json:"product_name"`
	Quantity          int                `json:"quantity"`
	Produced          int                `json:"produced"`
	Progress          float64            `json:"progress"`
	Priority          models.Priority    `json:"priority"`
	Status            models.OrderStatus `json:"status"`
	DeliveryDate      time.Time          `json:"delivery_date"`
	DaysUntilDeadline int                `json:"days_until_deadline"`
	Late              bool               `json:"late"`
	NearDeadline      bool               `json:"near_deadline"`
}

type MachineWithPlan struct {
	Machine             models.Machine `json:"machine"`
	PlanID              uint           `json:"plan_id,omitempty"`
	Version             int            `json:"version"`
	Lines               []LineView     `json:"lines"`
	ProductionGoal      int            `json:"production_goal"`
	EstimatedEfficiency float64        `json:"estimated_efficiency"`
	Notes               string         `json:"notes"`
	WeeklyCapacity      int            `json:"weekly_capacity"`
	Utilization         float64        `json:"utilization"`
	Overloaded          bool           `json:"overloaded"`
}

type WeekMetrics struct {
	TotalPlanned       int     `json:"total_planned"`
	AssignedOrders     int     `json:"assigned_orders"` // assigned order lines
	AverageEfficiency  float64 `json:"average_efficiency"`
	UnassignedOrders   int     `json:"unassigned_orders"`
	UnassignedQuantity int     `json:"unassigned_quantity"`
	OverloadedMachines int     `json:"overloaded_machines"`
	ActiveMachines     int     `json:"active_machines"`
}

type WeekView struct {
	WeekStart        string            `json:"week_start"`
	Machines         []MachineWithPlan `json:"machines"`
	UnassignedOrders []LineView        `json:"unassigned_orders"`
	Metrics          WeekMetrics       `json:"metrics"`
}

// EmptyWeekView is what callers get when the week could not be loaded.
func EmptyWeekView(week string) WeekView {
	return WeekView{
		WeekStart:        week,
		Machines:         []MachineWithPlan{},
		UnassignedOrders: []LineView{},
	}
}
