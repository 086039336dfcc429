package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/controllers"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/middlewares"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/services"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer is wired to.
type Deps struct {
	DB       *gorm.DB
	Store    repository.Store
	Planning *services.PlanningService
	Hub      *hub.Hub

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst).RateLimit())

	machineCtrl := controllers.NewMachineController(d.Store)
	orderCtrl := controllers.NewOrderController(d.Store)
	planningCtrl := controllers.NewPlanningController(d.Planning)
	dashboardCtrl := controllers.NewDashboardController(d.Planning)
	customerCtrl := controllers.NewCustomerController(d.DB)
	productCtrl := controllers.NewProductController(d.DB)
	operatorCtrl := controllers.NewOperatorController(d.DB)
	rollCtrl := controllers.NewRollController(d.DB)
	liveCtrl := controllers.NewLiveController(d.Hub, d.CORSOrigins)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "time": time.Now().UTC()})
	})

	// Live dashboard updates
	r.GET("/ws", liveCtrl.Serve)

	// MACHINES
	r.GET("/machines", machineCtrl.GetMachines)
	r.GET("/machines/:machine_id", machineCtrl.GetMachineByID)
	r.PATCH("/machines/:machine_id/status", machineCtrl.UpdateMachineStatus)

	// ORDERS
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
	r.PATCH("/order-items/:item_id/progress", orderCtrl.UpdateItemProgress)

	// PLANNING; :week is YYYY-MM-DD (any day of the week) or "current"
	planning := r.Group("/planning/weeks/:week")
	{
		planning.GET("", planningCtrl.GetWeek)
		planning.GET("/export", planningCtrl.ExportWeek)
		planning.POST("/assignments", planningCtrl.Assign)
		planning.DELETE("/assignments/:item_id", planningCtrl.Unassign)
		planning.GET("/machines/:machine_id", planningCtrl.GetMachinePlan)
		planning.PUT("/machines/:machine_id", planningCtrl.UpdateMachinePlan)
	}

	// CUSTOMERS / PRODUCTS
	r.GET("/customers", customerCtrl.GetAllCustomers)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	r.GET("/products", productCtrl.GetAllProducts)
	r.POST("/products", productCtrl.CreateProduct)
	r.GET("/products/:product_id", productCtrl.GetProductByID)

	// OPERATORS
	r.GET("/operators", operatorCtrl.GetAllOperators)
	r.POST("/operators", operatorCtrl.CreateOperator)
	r.PUT("/operators/:operator_id", operatorCtrl.UpdateOperator)
	r.DELETE("/operators/:operator_id", operatorCtrl.DeleteOperator)

	// ROLLS
	r.GET("/rolls", rollCtrl.GetAllRolls)
	r.POST("/rolls", rollCtrl.CreateRoll)
	r.GET("/rolls/:roll_id", rollCtrl.GetRollByID)
	r.PATCH("/rolls/:roll_id/consume", rollCtrl.ConsumeRoll)
	r.GET("/rolls/:roll_id/label", rollCtrl.GetRollLabel)

	r.GET("/dashboard/stats", dashboardCtrl.GetStats)

	return r
}
