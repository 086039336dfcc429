package models

import "time"

type Machine struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Number          int           `gorm:"not null;uniqueIndex" json:"number"`
	Name            string        `gorm:"type:varchar(100);not null" json:"name"`
	Type            MachineType   `gorm:"type:varchar(20);not null;default:'no_print'" json:"type"`
	Status          MachineStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CapacityPerHour int           `gorm:"not null;default:0" json:"capacity_per_hour"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}
