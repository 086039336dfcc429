package models

import "time"

type Operator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Shift     string    `gorm:"type:varchar(20);not null;default:'day'" json:"shift"`
	MachineID *uint     `gorm:"index" json:"machine_id,omitempty"`
	Machine   *Machine  `gorm:"foreignKey:MachineID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"machine,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
