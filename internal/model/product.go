package model

type Product struct {
	BaseModel
	SKU       string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Quantity  int    `gorm:"default:0" json:"quantity"` // May go negative; sales are never clamped
	Threshold int    `gorm:"default:0" json:"threshold"`
	Price     int64  `gorm:"default:0" json:"price"`
}

// LowStock reports whether the product sits at or below its reorder
// threshold while still having units on hand.
func (p *Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.Threshold
}

// OutOfStock reports whether the product has no units left (or is oversold).
func (p *Product) OutOfStock() bool {
	return p.Quantity <= 0
}
