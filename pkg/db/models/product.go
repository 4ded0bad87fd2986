package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing. Rows are immutable once inserted.
type Product struct {
	ID          string              `gorm:"column:id;type:text;primaryKey"`
	Name        string              `gorm:"column:name;not null;index"`
	Description string              `gorm:"column:description;not null"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	PriceSale   decimal.NullDecimal `gorm:"column:price_sale;type:numeric(12,2)"`
	ImageURL    *string             `gorm:"column:image_url"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an opaque id when the caller did not supply one.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
