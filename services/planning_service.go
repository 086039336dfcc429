package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/factory-app/config"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/utils"
)

// PlanningService builds the weekly planning board and moves order lines
// between machines.
type PlanningService struct {
	store repository.Store
	cfg   config.PlanningConfig
	now   func() time.Time
}

func NewPlanningService(store repository.Store, cfg config.PlanningConfig) *PlanningService {
	if cfg.HoursPerWeek <= 0 {
		cfg.HoursPerWeek = 120
	}
	if cfg.DefaultEfficiency <= 0 || cfg.DefaultEfficiency > 100 {
		cfg.DefaultEfficiency = 85
	}
	return &PlanningService{store: store, cfg: cfg, now: time.Now}
}

func (s *PlanningService) Now() time.Time {
	return s.now()
}

// LoadWeek combines every machine, its plan for the week and the pool of
// plannable order lines not yet on any machine. On any read failure the
// empty view is returned together with the error.
func (s *PlanningService) LoadWeek(ctx context.Context, weekStart time.Time) (WeekView, error) {
	week := WeekKey(weekStart)

	machines, err := s.store.ListMachines(ctx)
	if err != nil {
		return s.loadFailed(week, err)
	}
	plans, err := s.store.ListPlannings(ctx, week)
	if err != nil {
		return s.loadFailed(week, err)
	}
	open, err := s.store.ListOrderItems(ctx, repository.OrderItemFilter{Statuses: models.PlannableStatuses()})
	if err != nil {
		return s.loadFailed(week, err)
	}

	items := make(map[uint]models.OrderItem, len(open))
	for _, it := range open {
		items[it.ID] = it
	}

	// Lines may stay on a plan after their order left the plannable statuses.
	var missing []uint
	for _, p := range plans {
		for _, l := range p.Lines {
			if _, ok := items[l.OrderItemID]; !ok {
				missing = append(missing, l.OrderItemID)
			}
		}
	}
	if len(missing) > 0 {
		extra, err := s.store.ListOrderItems(ctx, repository.OrderItemFilter{IDs: missing})
		if err != nil {
			return s.loadFailed(week, err)
		}
		for _, it := range extra {
			items[it.ID] = it
		}
	}

	return s.buildView(week, machines, plans, open, items), nil
}

func (s *PlanningService) loadFailed(week string, err error) (WeekView, error) {
	utils.ErrorLogger.WithError(err).WithField("week", week).Error("Failed to load planning week")
	return EmptyWeekView(week), fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}

func (s *PlanningService) buildView(week string, machines []models.Machine, plans []models.WeeklyPlanning,
	open []models.OrderItem, items map[uint]models.OrderItem) WeekView {

	view := EmptyWeekView(week)
	today := s.today()

	byMachine := make(map[uint]models.WeeklyPlanning, len(plans))
	assigned := make(map[uint]bool)
	for _, p := range plans {
		byMachine[p.MachineID] = p
		for _, l := range p.Lines {
			assigned[l.OrderItemID] = true
		}
	}

	var efficiencySum float64
	var withPlan int
	for _, m := range machines {
		mp := MachineWithPlan{Machine: m, Lines: []LineView{}, EstimatedEfficiency: s.cfg.DefaultEfficiency}
		if p, ok := byMachine[m.ID]; ok {
			mp.PlanID = p.ID
			mp.Version = p.Version
			mp.ProductionGoal = p.ProductionGoal
			mp.Notes = p.Notes
			if p.EstimatedEfficiency > 0 {
				mp.EstimatedEfficiency = p.EstimatedEfficiency
			}
			for _, l := range p.Lines {
				mp.Lines = append(mp.Lines, s.plannedLineView(l, items, today))
			}
			efficiencySum += mp.EstimatedEfficiency
			withPlan++
			view.Metrics.AssignedOrders += len(p.Lines)
		}

		mp.WeeklyCapacity = int(float64(m.CapacityPerHour) * s.cfg.HoursPerWeek * mp.EstimatedEfficiency / 100)
		if mp.WeeklyCapacity > 0 {
			mp.Utilization = round1(float64(mp.ProductionGoal) / float64(mp.WeeklyCapacity) * 100)
			mp.Overloaded = mp.Utilization > 100
		} else {
			mp.Overloaded = mp.ProductionGoal > 0
		}

		if mp.Overloaded {
			view.Metrics.OverloadedMachines++
		}
		if m.Status == models.MachineActive {
			view.Metrics.ActiveMachines++
		}
		view.Metrics.TotalPlanned += mp.ProductionGoal
		view.Machines = append(view.Machines, mp)
	}
	if withPlan > 0 {
		view.Metrics.AverageEfficiency = round1(efficiencySum / float64(withPlan))
	}

	for _, it := range open {
		if assigned[it.ID] {
			continue
		}
		view.UnassignedOrders = append(view.UnassignedOrders, s.lineView(it, today))
		view.Metrics.UnassignedQuantity += it.Quantity
	}
	sort.SliceStable(view.UnassignedOrders, func(i, j int) bool {
		a, b := view.UnassignedOrders[i], view.UnassignedOrders[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if !a.DeliveryDate.Equal(b.DeliveryDate) {
			return a.DeliveryDate.Before(b.DeliveryDate)
		}
		return a.OrderItemID < b.OrderItemID
	})
	view.Metrics.UnassignedOrders = len(view.UnassignedOrders)

	return view
}

func (s *PlanningService) plannedLineView(l models.PlannedLine, items map[uint]models.OrderItem, today time.Time) LineView {
	it, ok := items[l.OrderItemID]
	if !ok {
		return LineView{OrderItemID: l.OrderItemID, OrderID: l.OrderID, Quantity: l.Quantity}
	}
	v := s.lineView(it, today)
	v.Quantity = l.Quantity
	return v
}

func (s *PlanningService) lineView(it models.OrderItem, today time.Time) LineView {
	delivery := time.Date(it.Order.DeliveryDate.Year(), it.Order.DeliveryDate.Month(), it.Order.DeliveryDate.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Floor(delivery.Sub(today).Hours() / 24))
	return LineView{
		OrderItemID:       it.ID,
		OrderID:           it.OrderID,
		OrderNumber:       it.Order.Number,
		CustomerName:      it.Order.Customer.Name,
		ProductCode:       it.Product.Code,
		ProductName:       it.Product.Name,
		Quantity:          it.Quantity,
		Produced:          it.Produced,
		Progress:          round1(it.Progress()),
		Priority:          it.Order.Priority,
		Status:            it.Order.Status,
		DeliveryDate:      it.Order.DeliveryDate,
		DaysUntilDeadline: days,
		Late:              days < 0,
		NearDeadline:      days >= 0 && days <= s.cfg.DeadlineWarningDays,
	}
}

func (s *PlanningService) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// GetPlan returns the plan of a machine for the week, or an empty plan when
// nothing has been assigned yet.
func (s *PlanningService) GetPlan(ctx context.Context, weekStart time.Time, machineID uint) (*models.WeeklyPlanning, error) {
	week := WeekKey(weekStart)
	plan, err := s.store.FindPlanning(ctx, machineID, week)
	if err == nil {
		return plan, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		if _, err := s.store.GetMachine(ctx, machineID); err != nil {
			return nil, storeErr(err, ErrMachineNotFound)
		}
		return &models.WeeklyPlanning{MachineID: machineID, WeekStart: week, Lines: []models.PlannedLine{}}, nil
	}
	return nil, storeErr(err, nil)
}

// Assign moves an order line onto machineID for the week. Assigning a line to
// the machine it is already on changes nothing.
func (s *PlanningService) Assign(ctx context.Context, weekStart time.Time, orderItemID, machineID uint) (*models.WeeklyPlanning, error) {
	week := WeekKey(weekStart)
	log := utils.InfoLogger.WithFields(logrus.Fields{
		"week":          week,
		"order_item_id": orderItemID,
		"machine_id":    machineID,
	})

	var result *models.WeeklyPlanning
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := tx.GetOrderItem(ctx, orderItemID)
		if err != nil {
			return storeErr(err, ErrOrderLineNotFound)
		}
		if !item.Order.Status.Plannable() {
			return ErrOrderLineClosed
		}
		machine, err := tx.GetMachine(ctx, machineID)
		if err != nil {
			return storeErr(err, ErrMachineNotFound)
		}
		if machine.Status != models.MachineActive {
			return ErrMachineNotActive
		}

		plans, err := tx.ListPlannings(ctx, week)
		if err != nil {
			return storeErr(err, nil)
		}
		sources, target := locate(plans, orderItemID, machineID)
		onTarget := false
		for _, src := range sources {
			if src == target {
				onTarget = true
				continue
			}
			if err := detach(ctx, tx, src, orderItemID); err != nil {
				return err
			}
		}
		if onTarget {
			result = target
			return nil
		}

		line := models.PlannedLine{
			OrderItemID: item.ID,
			OrderID:     item.OrderID,
			Quantity:    item.Quantity,
			AssignedAt:  s.now().UTC(),
		}
		if target == nil {
			target = &models.WeeklyPlanning{
				MachineID:           machineID,
				WeekStart:           week,
				EstimatedEfficiency: s.cfg.DefaultEfficiency,
				Lines:               []models.PlannedLine{line},
			}
			target.RecomputeGoal()
			if err := tx.InsertPlanning(ctx, target); err != nil {
				return storeErr(err, nil)
			}
		} else {
			target.Lines = append(target.Lines, line)
			target.RecomputeGoal()
			if err := tx.UpdatePlanning(ctx, target); err != nil {
				return storeErr(err, nil)
			}
		}
		result = target
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Assign failed")
		return nil, err
	}

	log.WithField("goal", result.ProductionGoal).Info("Order line assigned")
	return result, nil
}

// Unassign removes an order line from whatever machine holds it for the week.
// A line that is not assigned is left alone.
func (s *PlanningService) Unassign(ctx context.Context, weekStart time.Time, orderItemID uint) error {
	week := WeekKey(weekStart)
	log := utils.InfoLogger.WithFields(logrus.Fields{
		"week":          week,
		"order_item_id": orderItemID,
	})

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetOrderItem(ctx, orderItemID); err != nil {
			return storeErr(err, ErrOrderLineNotFound)
		}
		plans, err := tx.ListPlannings(ctx, week)
		if err != nil {
			return storeErr(err, nil)
		}
		sources, _ := locate(plans, orderItemID, 0)
		for _, src := range sources {
			log = log.WithField("machine_id", src.MachineID)
			if err := detach(ctx, tx, src, orderItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Unassign failed")
		return err
	}

	log.Info("Order line unassigned")
	return nil
}

// UpdatePlanDetails sets notes and estimated efficiency of a machine's plan,
// creating the plan if needed.
func (s *PlanningService) UpdatePlanDetails(ctx context.Context, weekStart time.Time, machineID uint, notes string, efficiency float64) (*models.WeeklyPlanning, error) {
	if efficiency <= 0 || efficiency > 100 {
		return nil, ErrInvalidEfficiency
	}
	if _, err := s.store.GetMachine(ctx, machineID); err != nil {
		return nil, storeErr(err, ErrMachineNotFound)
	}

	plan, err := s.store.UpsertPlanningDetails(ctx, &models.WeeklyPlanning{
		MachineID:           machineID,
		WeekStart:           WeekKey(weekStart),
		Notes:               notes,
		EstimatedEfficiency: efficiency,
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return plan, nil
}

// locate returns every plan holding orderItemID and the plan of machineID.
// Normally a line sits on at most one plan, but two concurrent assigns to
// different machines can both commit; callers clear all copies.
func locate(plans []models.WeeklyPlanning, orderItemID, machineID uint) (sources []*models.WeeklyPlanning, target *models.WeeklyPlanning) {
	for i := range plans {
		p := &plans[i]
		if p.IndexOf(orderItemID) >= 0 {
			sources = append(sources, p)
		}
		if machineID != 0 && p.MachineID == machineID {
			target = p
		}
	}
	return sources, target
}

// detach removes the line from p and persists the result; a plan left
// without lines is deleted.
func detach(ctx context.Context, tx repository.Store, p *models.WeeklyPlanning, orderItemID uint) error {
	idx := p.IndexOf(orderItemID)
	if idx < 0 {
		return nil
	}
	p.Lines = append(p.Lines[:idx:idx], p.Lines[idx+1:]...)
	if len(p.Lines) == 0 {
		if err := tx.DeletePlanning(ctx, p); err != nil {
			return storeErr(err, nil)
		}
		return nil
	}
	p.RecomputeGoal()
	if err := tx.UpdatePlanning(ctx, p); err != nil {
		return storeErr(err, nil)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
