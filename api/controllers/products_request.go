package controllers

import (
	"bytes"
	"strings"

	productsvc "github.com/angelmondragon/storefront-backend/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const productRequiredMessage = "Name, description and price are required"

// money accepts a JSON number or a numeric string. null and "" read as absent.
type money struct {
	decimal.NullDecimal
}

func (m *money) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		m.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	return m.NullDecimal.UnmarshalJSON(trimmed)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       money   `json:"price"`
	PriceSale   money   `json:"priceSale"`
	ImageURL    *string `json:"imageUrl"`
}

// checkRequired treats a zero price like a missing one.
func (p createProductRequest) checkRequired() error {
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Description) == "" ||
		!p.Price.Valid || p.Price.Decimal.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, productRequiredMessage)
	}
	return nil
}

func (p createProductRequest) toCreateInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Decimal,
		PriceSale:   p.PriceSale.NullDecimal,
		ImageURL:    p.ImageURL,
	}
}
