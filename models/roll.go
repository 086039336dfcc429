package models

import "time"

// Roll is a coil of raw material in stock.
type Roll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"code"`
	Material    string     `gorm:"type:varchar(100);not null" json:"material"`
	Supplier    string     `gorm:"type:varchar(255)" json:"supplier"`
	WidthMM     int        `json:"width_mm"`
	WeightKg    float64    `gorm:"not null" json:"weight_kg"`
	RemainingKg float64    `gorm:"not null" json:"remaining_kg"`
	Status      RollStatus `gorm:"type:varchar(20);not null;default:'in_stock';index" json:"status"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
