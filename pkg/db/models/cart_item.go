package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is a stored (cart, product, quantity) row. ProductID references a
// product without owning it.
type CartItem struct {
	ID        string    `gorm:"column:id;type:text;primaryKey"`
	CartID    string    `gorm:"column:cart_id;type:text;not null;index"`
	ProductID string    `gorm:"column:product_id;type:text;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
