package repository

import (
	"context"
	"errors"

	"github.com/yeremiapane/factory-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var planningKey = []clause.Column{{Name: "machine_id"}, {Name: "week_start"}}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) ListMachines(ctx context.Context) ([]models.Machine, error) {
	var machines []models.Machine
	if err := s.db.WithContext(ctx).Order("number asc").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (s *GormStore) GetMachine(ctx context.Context, id uint) (*models.Machine, error) {
	var machine models.Machine
	if err := s.db.WithContext(ctx).First(&machine, id).Error; err != nil {
		return nil, translate(err)
	}
	return &machine, nil
}

func (s *GormStore) UpdateMachineStatus(ctx context.Context, id uint, status models.MachineStatus) (*models.Machine, error) {
	machine, err := s.GetMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(machine).Update("status", status).Error; err != nil {
		return nil, err
	}
	machine.Status = status
	return machine, nil
}

func (s *GormStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Order{})
		if len(f.Statuses) > 0 {
			q = q.Where("status IN ?", f.Statuses)
		}
		if f.Priority != "" {
			q = q.Where("priority = ?", f.Priority)
		}
		if f.CustomerID != 0 {
			q = q.Where("customer_id = ?", f.CustomerID)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page.Normalize()
	var orders []models.Order
	err := scoped().
		Preload("Customer").
		Preload("Items.Product").
		Order("delivery_date asc, id asc").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) UpdateOrder(ctx context.Context, id uint, changes OrderChanges) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}
	if changes.Priority != nil {
		updates["priority"] = *changes.Priority
	}
	if changes.DeliveryDate != nil {
		updates["delivery_date"] = *changes.DeliveryDate
	}
	if changes.Notes != nil {
		updates["notes"] = *changes.Notes
	}
	if len(updates) == 0 {
		return order, nil
	}

	// preloaded associations stay out of the write
	if err := s.db.WithContext(ctx).Model(&models.Order{ID: order.ID}).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *GormStore) CountOrdersByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (s *GormStore) ListOrderItems(ctx context.Context, f OrderItemFilter) ([]models.OrderItem, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Preload("Order.Customer").
		Preload("Product").
		Order("order_items.id asc")
	if len(f.IDs) > 0 {
		q = q.Where("order_items.id IN ?", f.IDs)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("orders.status IN ?", f.Statuses)
	}
	if f.Page.PageSize > 0 {
		page := f.Page.Normalize()
		q = q.Offset(page.Offset()).Limit(page.PageSize)
	}

	var items []models.OrderItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.db.WithContext(ctx).
		Preload("Order.Customer").
		Preload("Product").
		First(&item, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) UpdateOrderItemProgress(ctx context.Context, id uint, produced int) (*models.OrderItem, error) {
	item, err := s.GetOrderItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.OrderItem{ID: item.ID}).Update("produced", produced).Error; err != nil {
		return nil, err
	}
	item.Produced = produced
	return item, nil
}

func (s *GormStore) ListPlannings(ctx context.Context, week string) ([]models.WeeklyPlanning, error) {
	var plans []models.WeeklyPlanning
	err := s.db.WithContext(ctx).
		Where("week_start = ?", week).
		Order("machine_id asc").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *GormStore) FindPlanning(ctx context.Context, machineID uint, week string) (*models.WeeklyPlanning, error) {
	var plan models.WeeklyPlanning
	err := s.db.WithContext(ctx).
		Where("machine_id = ? AND week_start = ?", machineID, week).
		First(&plan).Error
	if err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// InsertPlanning creates the first plan of a machine for a week. If another
// writer created it first, ErrConflict is returned and nothing is written.
func (s *GormStore) InsertPlanning(ctx context.Context, p *models.WeeklyPlanning) error {
	p.Version = 1
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{Columns: planningKey, DoNothing: true}).Create(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// also undoes the change row the create hook wrote
			p.ID = 0
			return ErrConflict
		}
		return nil
	})
}

// UpdatePlanning writes p only if the stored version still matches p.Version,
// then bumps the version.
func (s *GormStore) UpdatePlanning(ctx context.Context, p *models.WeeklyPlanning) error {
	expected := p.Version
	p.Version = expected + 1
	res := s.db.WithContext(ctx).
		Model(p).
		Where("version = ?", expected).
		Select("lines", "production_goal", "estimated_efficiency", "notes", "version", "updated_at").
		Updates(p)
	if res.Error != nil {
		p.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = expected
		return ErrConflict
	}
	return nil
}

func (s *GormStore) DeletePlanning(ctx context.Context, p *models.WeeklyPlanning) error {
	res := s.db.WithContext(ctx).Where("version = ?", p.Version).Delete(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// UpsertPlanningDetails sets notes and efficiency on the (machine, week) plan,
// creating an empty plan when none exists. Losing a create race to another
// writer gives ErrConflict.
func (s *GormStore) UpsertPlanningDetails(ctx context.Context, p *models.WeeklyPlanning) (*models.WeeklyPlanning, error) {
	var creating bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.WeeklyPlanning
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("machine_id = ? AND week_start = ?", p.MachineID, p.WeekStart).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			creating = true
			p.Version = 1
			if p.Lines == nil {
				p.Lines = []models.PlannedLine{}
			}
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"notes":                p.Notes,
			"estimated_efficiency": p.EstimatedEfficiency,
			"version":              gorm.Expr("version + 1"),
		}).Error
	})
	if err != nil {
		if creating {
			if _, findErr := s.FindPlanning(ctx, p.MachineID, p.WeekStart); findErr == nil {
				return nil, ErrConflict
			}
		}
		return nil, err
	}
	return s.FindPlanning(ctx, p.MachineID, p.WeekStart)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
