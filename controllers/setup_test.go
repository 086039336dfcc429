package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/factory-app/config"
	"github.com/yeremiapane/factory-app/controllers"
	"github.com/yeremiapane/factory-app/database"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/services"
	"github.com/yeremiapane/factory-app/utils"
)

type testApp struct {
	db       *gorm.DB
	router   *gin.Engine
	hub      *hub.Hub
	machines []models.Machine
	orders   []models.Order
}

// setupTestApp migrates an in-memory database, seeds two active machines, one
// in maintenance and three orders, and wires every controller.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	utils.SetupLogger("error", "text")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	app := &testApp{db: db, hub: hub.New()}

	for i, status := range []models.MachineStatus{models.MachineActive, models.MachineActive, models.MachineMaintenance} {
		m := models.Machine{
			Number:          i + 1,
			Name:            fmt.Sprintf("Extrusora %02d", i+1),
			Type:            models.MachineNoPrint,
			Status:          status,
			CapacityPerHour: 120,
		}
		require.NoError(t, db.Create(&m).Error)
		app.machines = append(app.machines, m)
	}

	customer := models.Customer{Name: "Plasticos Sul"}
	require.NoError(t, db.Create(&customer).Error)
	product := models.Product{Code: "BOB-300", Name: "Bobina 300mm"}
	require.NoError(t, db.Create(&product).Error)

	delivery := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	for i, seed := range []struct {
		priority models.Priority
		status   models.OrderStatus
		qty      []int
	}{
		{models.PriorityNormal, models.OrderPending, []int{2000, 500}},
		{models.PriorityUrgent, models.OrderInProduction, []int{300}},
		{models.PriorityNormal, models.OrderDelivered, []int{100}},
	} {
		o := models.Order{
			Number:       fmt.Sprintf("PED-%03d", i+1),
			CustomerID:   customer.ID,
			Priority:     seed.priority,
			Status:       seed.status,
			DeliveryDate: delivery.AddDate(0, 0, i),
		}
		for _, q := range seed.qty {
			o.Items = append(o.Items, models.OrderItem{ProductID: product.ID, Quantity: q})
		}
		require.NoError(t, db.Create(&o).Error)
		app.orders = append(app.orders, o)
	}

	store := repository.NewGormStore(db)
	planning := services.NewPlanningService(store, config.PlanningConfig{
		HoursPerWeek:        120,
		DefaultEfficiency:   85,
		DeadlineWarningDays: 3,
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	machineCtrl := controllers.NewMachineController(store)
	orderCtrl := controllers.NewOrderController(store)
	planningCtrl := controllers.NewPlanningController(planning)
	dashboardCtrl := controllers.NewDashboardController(planning)
	customerCtrl := controllers.NewCustomerController(db)
	productCtrl := controllers.NewProductController(db)
	operatorCtrl := controllers.NewOperatorController(db)
	rollCtrl := controllers.NewRollController(db)
	liveCtrl := controllers.NewLiveController(app.hub, []string{"*"})

	r.GET("/ws", liveCtrl.Serve)
	r.GET("/machines", machineCtrl.GetMachines)
	r.GET("/machines/:machine_id", machineCtrl.GetMachineByID)
	r.PATCH("/machines/:machine_id/status", machineCtrl.UpdateMachineStatus)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
	r.PATCH("/order-items/:item_id/progress", orderCtrl.UpdateItemProgress)
	r.GET("/planning/weeks/:week", planningCtrl.GetWeek)
	r.GET("/planning/weeks/:week/export", planningCtrl.ExportWeek)
	r.POST("/planning/weeks/:week/assignments", planningCtrl.Assign)
	r.DELETE("/planning/weeks/:week/assignments/:item_id", planningCtrl.Unassign)
	r.GET("/planning/weeks/:week/machines/:machine_id", planningCtrl.GetMachinePlan)
	r.PUT("/planning/weeks/:week/machines/:machine_id", planningCtrl.UpdateMachinePlan)
	r.GET("/customers", customerCtrl.GetAllCustomers)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	r.GET("/products", productCtrl.GetAllProducts)
	r.POST("/products", productCtrl.CreateProduct)
	r.GET("/products/:product_id", productCtrl.GetProductByID)
	r.GET("/operators", operatorCtrl.GetAllOperators)
	r.POST("/operators", operatorCtrl.CreateOperator)
	r.PUT("/operators/:operator_id", operatorCtrl.UpdateOperator)
	r.DELETE("/operators/:operator_id", operatorCtrl.DeleteOperator)
	r.GET("/rolls", rollCtrl.GetAllRolls)
	r.POST("/rolls", rollCtrl.CreateRoll)
	r.GET("/rolls/:roll_id", rollCtrl.GetRollByID)
	r.PATCH("/rolls/:roll_id/consume", rollCtrl.ConsumeRoll)
	r.GET("/rolls/:roll_id/label", rollCtrl.GetRollLabel)
	r.GET("/dashboard/stats", dashboardCtrl.GetStats)
	app.router = r

	return app
}

func (a *testApp) do(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}
