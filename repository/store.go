package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/factory-app/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the row changed (or appeared) between read and write.
	ErrConflict = errors.New("record was modified concurrently")
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

type Page struct {
	Page     int
	PageSize int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type OrderFilter struct {
	Statuses   []models.OrderStatus
	Priority   models.Priority
	CustomerID uint
	Page       Page
}

type OrderChanges struct {
	Status       *models.OrderStatus
	Priority     *models.Priority
	DeliveryDate *time.Time
	Notes        *string
}

// OrderItemFilter selects order lines by id and/or the status of their order.
// A zero Page returns every matching line.
type OrderItemFilter struct {
	IDs      []uint
	Statuses []models.OrderStatus
	Page     Page
}

// Store is everything the planning core needs from the backing store.
type Store interface {
	ListMachines(ctx context.Context) ([]models.Machine, error)
	GetMachine(ctx context.Context, id uint) (*models.Machine, error)
	UpdateMachineStatus(ctx context.Context, id uint, status models.MachineStatus) (*models.Machine, error)

	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uint, changes OrderChanges) (*models.Order, error)
	CountOrdersByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)

	ListOrderItems(ctx context.Context, f OrderItemFilter) ([]models.OrderItem, error)
	GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error)
	UpdateOrderItemProgress(ctx context.Context, id uint, produced int) (*models.OrderItem, error)

	ListPlannings(ctx context.Context, week string) ([]models.WeeklyPlanning, error)
	FindPlanning(ctx context.Context, machineID uint, week string) (*models.WeeklyPlanning, error)
	InsertPlanning(ctx context.Context, p *models.WeeklyPlanning) error
	UpdatePlanning(ctx context.Context, p *models.WeeklyPlanning) error
	DeletePlanning(ctx context.Context, p *models.WeeklyPlanning) error
	UpsertPlanningDetails(ctx context.Context, p *models.WeeklyPlanning) (*models.WeeklyPlanning, error)

	// Transaction runs fn against a Store bound to a single transaction.
	Transaction(ctx context.Context, fn func(Store) error) error
}
