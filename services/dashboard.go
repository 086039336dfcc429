package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/factory-app/models"
)

type DashboardStats struct {
	TotalMachines    int                          `json:"total_machines"`
	MachinesByStatus map[models.MachineStatus]int `json:"machines_by_status"`
	MachineUsage     float64                      `json:"machine_usage"` // active share in percent
	TotalOrders      int64                        `json:"total_orders"`
	OrdersByStatus   map[models.OrderStatus]int64 `json:"orders_by_status"`
	OpenOrders       int64                        `json:"open_orders"`
	Week             WeekMetrics                  `json:"week"`
}

// DashboardStats summarises the machine park, the order book and the
// current planning week.
func (s *PlanningService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{
		MachinesByStatus: map[models.MachineStatus]int{},
		OrdersByStatus:   map[models.OrderStatus]int64{},
	}

	machines, err := s.store.ListMachines(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	for _, m := range machines {
		stats.MachinesByStatus[m.Status]++
	}
	stats.TotalMachines = len(machines)
	if stats.TotalMachines > 0 {
		stats.MachineUsage = round1(float64(stats.MachinesByStatus[models.MachineActive]) / float64(stats.TotalMachines) * 100)
	}

	counts, err := s.store.CountOrdersByStatus(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	for status, n := range counts {
		stats.OrdersByStatus[status] = n
		stats.TotalOrders += n
		if status.Plannable() {
			stats.OpenOrders += n
		}
	}

	view, err := s.LoadWeek(ctx, WeekStart(s.now()))
	if err != nil {
		return stats, err
	}
	stats.Week = view.Metrics
	return stats, nil
}
