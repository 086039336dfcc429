package models

import "time"

// WeekLayout is the stored form of a planning week start.
const WeekLayout = "2006-01-02"

// WeeklyPlanning holds the order lines assigned to one machine for one week.
// There is at most one row per (machine_id, week_start).
type WeeklyPlanning struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	MachineID           uint          `gorm:"not null;uniqueIndex:idx_machine_week" json:"machine_id"`
	Machine             Machine       `gorm:"foreignKey:MachineID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	WeekStart           string        `gorm:"type:varchar(10);not null;uniqueIndex:idx_machine_week;index" json:"week_start"`
	Lines               []PlannedLine `gorm:"serializer:json;type:text" json:"lines"`
	ProductionGoal      int           `gorm:"not null;default:0" json:"production_goal"`
	EstimatedEfficiency float64       `gorm:"not null;default:0" json:"estimated_efficiency"`
	Notes               string        `gorm:"type:text" json:"notes"`
	Version             int           `gorm:"not null;default:1" json:"version"`
	CreatedAt           time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"not null" json:"updated_at"`
}

// PlannedLine points an order line at the plan's machine for the week.
type PlannedLine struct {
	OrderItemID uint      `json:"order_item_id"`
	OrderID     uint      `json:"order_id"`
	Quantity    int       `json:"quantity"`
	AssignedAt  time.Time `json:"assigned_at"`
}

func (p *WeeklyPlanning) IndexOf(orderItemID uint) int {
	for i, l := range p.Lines {
		if l.OrderItemID == orderItemID {
			return i
		}
	}
	return -1
}

// RecomputeGoal re-sums the goal from the assigned lines.
func (p *WeeklyPlanning) RecomputeGoal() int {
	total := 0
	for _, l := range p.Lines {
		total += l.Quantity
	}
	p.ProductionGoal = total
	return total
}
