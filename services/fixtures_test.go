package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/factory-app/config"
	"github.com/yeremiapane/factory-app/database"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testPlanningConfig = config.PlanningConfig{
	HoursPerWeek:        120,
	DefaultEfficiency:   85,
	DeadlineWarningDays: 3,
}

// monday of the week used throughout the tests
var testWeek = time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

type fixture struct {
	db       *gorm.DB
	store    *repository.GormStore
	svc      *PlanningService
	customer models.Customer
	product  models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	f := &fixture{db: db, store: repository.NewGormStore(db)}
	f.svc = NewPlanningService(f.store, testPlanningConfig)
	f.svc.now = func() time.Time { return testWeek.Add(9 * time.Hour) }

	f.customer = models.Customer{Name: "Plasticos Sul"}
	require.NoError(t, db.Create(&f.customer).Error)
	f.product = models.Product{Code: "BOB-300", Name: "Bobina 300mm", Material: "PEBD", WidthMM: 300}
	require.NoError(t, db.Create(&f.product).Error)
	return f
}

func (f *fixture) machine(t *testing.T, number int, status models.MachineStatus) models.Machine {
	t.Helper()
	m := models.Machine{
		Number:          number,
		Name:            fmt.Sprintf("Extrusora %02d", number),
		Type:            models.MachineNoPrint,
		Status:          status,
		CapacityPerHour: 120,
	}
	require.NoError(t, f.db.Create(&m).Error)
	return m
}

// order creates an order with one line per quantity.
func (f *fixture) order(t *testing.T, number string, priority models.Priority, status models.OrderStatus, delivery time.Time, quantities ...int) models.Order {
	t.Helper()
	o := models.Order{
		Number:       number,
		CustomerID:   f.customer.ID,
		Priority:     priority,
		Status:       status,
		DeliveryDate: delivery,
	}
	for _, q := range quantities {
		o.Items = append(o.Items, models.OrderItem{ProductID: f.product.ID, Quantity: q})
	}
	require.NoError(t, f.db.Create(&o).Error)
	return o
}

func (f *fixture) plan(t *testing.T, machineID uint) *models.WeeklyPlanning {
	t.Helper()
	p, err := f.store.FindPlanning(context.Background(), machineID, WeekKey(testWeek))
	if err == repository.ErrNotFound {
		return nil
	}
	require.NoError(t, err)
	return p
}

type recordingHub struct {
	events []string
	data   []interface{}
}

func (h *recordingHub) Publish(event string, data interface{}) {
	h.events = append(h.events, event)
	h.data = append(h.data, data)
}
