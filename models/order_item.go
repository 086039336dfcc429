package models

import "time"

// OrderItem is one order line: a product and the quantity to produce.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order from JSON to avoid recursive nesting
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint      `gorm:"not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Produced  int       `gorm:"not null;default:0" json:"produced"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Progress returns the produced share of the line in percent, capped at 100.
func (i OrderItem) Progress() float64 {
	if i.Quantity <= 0 {
		return 0
	}
	p := float64(i.Produced) / float64(i.Quantity) * 100
	if p > 100 {
		return 100
	}
	return p
}

func (i OrderItem) Remaining() int {
	if i.Produced >= i.Quantity {
		return 0
	}
	return i.Quantity - i.Produced
}
