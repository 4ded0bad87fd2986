package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// DefaultPlaceholderImage is the base used when a product has no image.
const DefaultPlaceholderImage = "https://picsum.photos/400/300"

// Service exposes catalog read and create operations.
type Service interface {
	GetProduct(ctx context.Context, id string) (*types.Product, error)
	ListProducts(ctx context.Context) ([]types.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*types.Product, error)
}

// Option customizes the product service.
type Option func(*service)

// WithPlaceholderImage overrides the base URL of generated image links.
func WithPlaceholderImage(base string) Option {
	return func(s *service) {
		if strings.TrimSpace(base) != "" {
			s.placeholder = strings.TrimRight(base, "?")
		}
	}
}

// WithClock replaces the time source used for placeholder cache-busting.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo        Repository
	placeholder string
	now         func() time.Time
}

// NewService constructs a product service instance.
func NewService(repo Repository, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	s := &service{
		repo:        repo,
		placeholder: DefaultPlaceholderImage,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetProduct returns (nil, nil) when the id is unknown.
func (s *service) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find product")
	}
	if product == nil {
		return nil, nil
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list products")
	}
	return newProductDTOs(rows), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*types.Product, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Price must not be negative")
	}

	sale := input.PriceSale
	// a zero sale price means no sale
	if sale.Valid && sale.Decimal.IsZero() {
		sale = decimal.NullDecimal{}
	}
	if sale.Valid {
		if sale.Decimal.IsNegative() || !sale.Decimal.LessThan(input.Price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Sale price must be lower than price")
		}
		sale.Decimal = sale.Decimal.Round(2)
	}

	image := input.ImageURL
	if image == nil || strings.TrimSpace(*image) == "" {
		generated := s.placeholderURL()
		image = &generated
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price.Round(2),
		PriceSale:   sale,
		ImageURL:    image,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert product")
	}
	dto := NewProductDTO(*created)
	return &dto, nil
}

func (s *service) placeholderURL() string {
	return fmt.Sprintf("%s?random=%d", s.placeholder, s.now().UnixMilli())
}
