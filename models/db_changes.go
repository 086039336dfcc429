package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// DBChange is one entry of the change feed read by the poll monitor.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}

func recordChange(tx *gorm.DB, table string, id uint, action string) error {
	return tx.Session(&gorm.Session{NewDB: true}).Create(&DBChange{
		TableName:  table,
		RecordID:   int64(id),
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}

func (m *Machine) AfterCreate(tx *gorm.DB) error {
	return recordChange(tx, "machines", m.ID, ChangeInsert)
}

func (m *Machine) AfterUpdate(tx *gorm.DB) error {
	return recordChange(tx, "machines", m.ID, ChangeUpdate)
}

func (o *Order) AfterCreate(tx *gorm.DB) error {
	return recordChange(tx, "orders", o.ID, ChangeInsert)
}

func (o *Order) AfterUpdate(tx *gorm.DB) error {
	return recordChange(tx, "orders", o.ID, ChangeUpdate)
}

func (i *OrderItem) AfterUpdate(tx *gorm.DB) error {
	return recordChange(tx, "order_items", i.ID, ChangeUpdate)
}

func (p *WeeklyPlanning) AfterCreate(tx *gorm.DB) error {
	return recordChange(tx, "weekly_plannings", p.ID, ChangeInsert)
}

func (p *WeeklyPlanning) AfterUpdate(tx *gorm.DB) error {
	return recordChange(tx, "weekly_plannings", p.ID, ChangeUpdate)
}

func (p *WeeklyPlanning) AfterDelete(tx *gorm.DB) error {
	return recordChange(tx, "weekly_plannings", p.ID, ChangeDelete)
}
