package model

import "github.com/google/uuid"

// Sale is an append-only record of a checkout. Line items reference
// products by id only; deleting a product never touches past sales.
type Sale struct {
	BaseModel
	TotalAmount int64      `gorm:"not null" json:"total_amount"` // Snapshot of price * quantity at record time
	Items       []SaleItem `gorm:"foreignKey:SaleID" json:"items" validate:"required,min=1,dive"`

	// User tracking
	RecordedByID *string `gorm:"type:varchar(255)" json:"recorded_by_id,omitempty"`
	RecordedBy   *User   `gorm:"foreignKey:RecordedByID;references:ID" json:"recorded_by,omitempty"`
}

type SaleItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SaleID    uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Quantity  int       `gorm:"not null" json:"quantity" validate:"required,gt=0"` // Qty must be > 0
}
