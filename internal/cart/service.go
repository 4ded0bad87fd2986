package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
)

// MaxLineQuantity is the largest quantity a single cart line can hold. It
// matches the INTEGER column of cart_items on Postgres.
const MaxLineQuantity = math.MaxInt32

// errQuantityTooLarge marks an add or update that would push a line past
// MaxLineQuantity.
var errQuantityTooLarge = errors.New("cart line quantity too large")

func quantityTooLarge() error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errQuantityTooLarge,
		fmt.Sprintf("Quantity must be at most %d", MaxLineQuantity))
}

// Service exposes the cart operations. Every call returns the freshly
// aggregated cart.
type Service interface {
	GetCart(ctx context.Context, userID string) (*types.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (*types.Cart, error)
	UpdateCartItem(ctx context.Context, userID, itemID string, quantity int) (*types.Cart, error)
	RemoveFromCart(ctx context.Context, userID, itemID string) (*types.Cart, error)
	ClearCart(ctx context.Context, userID string) (*types.Cart, error)
}

// Option customizes the cart service.
type Option func(*service)

// WithTxRunner runs the find-then-write step of AddToCart in one transaction.
func WithTxRunner(tx txRunner) Option {
	return func(s *service) { s.tx = tx }
}

// WithStrictItemNotFound reports unknown item ids as NOT_FOUND instead of
// INTERNAL_ERROR.
func WithStrictItemNotFound(strict bool) Option {
	return func(s *service) { s.strictNotFound = strict }
}

func WithMetrics(m *metrics.CartMetrics) Option {
	return func(s *service) { s.metrics = m }
}

type service struct {
	repo           Repository
	products       ProductLookup
	tx             txRunner
	strictNotFound bool
	metrics        *metrics.CartMetrics
}

// NewService builds a cart service backed by the provided stores.
func NewService(repo Repository, products ProductLookup, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	s := &service{repo: repo, products: products}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) GetCart(ctx context.Context, userID string) (*types.Cart, error) {
	record, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}
	return s.aggregate(ctx, s.repo, record)
}

// AddToCart increments the existing line for productID or inserts a new one.
func (s *service) AddToCart(ctx context.Context, userID, productID string, quantity int) (out *types.Cart, err error) {
	defer func() { s.metrics.Record(opAdd, err) }()

	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > MaxLineQuantity {
		return nil, quantityTooLarge()
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}

	record, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}

	err = s.withTx(ctx, func(repo Repository) error {
		existing, err := repo.FindItemByProduct(ctx, record.ID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Quantity > MaxLineQuantity-quantity {
				return errQuantityTooLarge
			}
			return repo.UpdateItemQuantity(ctx, record.ID, existing.ID, existing.Quantity+quantity)
		}
		_, err = repo.CreateItem(ctx, &models.CartItem{
			CartID:    record.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
		return err
	})
	if errors.Is(err, errQuantityTooLarge) {
		return nil, quantityTooLarge()
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: upsert cart item")
	}
	return s.aggregate(ctx, s.repo, record)
}

// UpdateCartItem sets the quantity of an existing line.
func (s *service) UpdateCartItem(ctx context.Context, userID, itemID string, quantity int) (out *types.Cart, err error) {
	defer func() { s.metrics.Record(opUpdate, err) }()

	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	record, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}
	if err := s.repo.UpdateItemQuantity(ctx, record.ID, itemID, quantity); err != nil {
		return nil, s.itemError(err, "db: update cart item")
	}
	return s.aggregate(ctx, s.repo, record)
}

// RemoveFromCart deletes an item that must belong to the caller's cart.
func (s *service) RemoveFromCart(ctx context.Context, userID, itemID string) (out *types.Cart, err error) {
	defer func() { s.metrics.Record(opRemove, err) }()

	record, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}
	if err := s.repo.DeleteItem(ctx, record.ID, itemID); err != nil {
		return nil, s.itemError(err, "db: delete cart item")
	}
	return s.aggregate(ctx, s.repo, record)
}

func (s *service) ClearCart(ctx context.Context, userID string) (out *types.Cart, err error) {
	defer func() { s.metrics.Record(opClear, err) }()

	record, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}
	if err := s.repo.ClearItems(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: clear cart")
	}
	return s.aggregate(ctx, s.repo, record)
}

// itemError keeps ErrItemNotFound in the chain either way; only the code differs.
func (s *service) itemError(err error, msg string) error {
	if errors.Is(err, ErrItemNotFound) && s.strictNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Cart item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func (s *service) withTx(ctx context.Context, fn func(Repository) error) error {
	if s.tx == nil {
		return fn(s.repo)
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
}

// aggregate joins the stored items with their products. Lines whose product
// no longer exists are dropped from items and totals.
func (s *service) aggregate(ctx context.Context, repo Repository, record *models.Cart) (*types.Cart, error) {
	items, err := repo.ListItems(ctx, record.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list cart items")
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart products")
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := &types.Cart{
		ID:     record.ID,
		UserID: record.UserID,
		Items:  make([]types.CartLine, 0, len(items)),
	}
	total := decimal.Zero
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		out.Items = append(out.Items, types.CartLine{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price.InexactFloat64(),
			ImageURL:  p.ImageURL,
			Quantity:  it.Quantity,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		out.ItemCount += it.Quantity
	}
	out.Total = total.Round(2).InexactFloat64()
	return out, nil
}
