package models

import "time"

// Orders are created by order intake and never deleted; they only move between statuses.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Number       string      `gorm:"type:varchar(50);not null;index" json:"number"`
	CustomerID   uint        `gorm:"not null;index" json:"customer_id"`
	Customer     Customer    `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer"`
	Priority     Priority    `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	DeliveryDate time.Time   `gorm:"not null" json:"delivery_date"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes        string      `gorm:"type:text" json:"notes"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}
