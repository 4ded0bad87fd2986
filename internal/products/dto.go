package products

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// CreateProductInput holds the payload to create a product. Money fields are
// parsed by the caller.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	PriceSale   decimal.NullDecimal
	ImageURL    *string
}

// NewProductDTO builds the wire representation of a stored product.
func NewProductDTO(p models.Product) types.Product {
	dto := types.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		ImageURL:    p.ImageURL,
	}
	if p.PriceSale.Valid {
		sale := p.PriceSale.Decimal.InexactFloat64()
		dto.PriceSale = &sale
	}
	return dto
}

func newProductDTOs(rows []models.Product) []types.Product {
	out := make([]types.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, NewProductDTO(p))
	}
	return out
}
