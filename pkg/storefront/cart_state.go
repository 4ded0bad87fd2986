package storefront

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// CartAPI is the server surface CartState mirrors.
type CartAPI interface {
	GetCart(ctx context.Context) (*types.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int, idempotencyKey string) (*types.Cart, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (*types.Cart, error)
	RemoveFromCart(ctx context.Context, itemID string) (*types.Cart, error)
	ClearCart(ctx context.Context) (*types.Cart, error)
}

// CartState holds the last cart aggregate returned by the server. It never
// computes totals itself: every mutation adopts the server's response.
type CartState struct {
	api CartAPI

	mu   sync.RWMutex
	cart types.Cart
}

func NewCartState(api CartAPI) *CartState {
	return &CartState{api: api, cart: types.EmptyCart()}
}

// Snapshot returns a copy of the current cart.
func (s *CartState) Snapshot() types.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.cart
	out.Items = append([]types.CartLine(nil), s.cart.Items...)
	if out.Items == nil {
		out.Items = []types.CartLine{}
	}
	return out
}

// Refresh refetches the cart. A failed fetch resets the state to empty.
func (s *CartState) Refresh(ctx context.Context) error {
	cart, err := s.api.GetCart(ctx)
	if err != nil {
		s.replace(nil)
		return err
	}
	s.replace(cart)
	return nil
}

func (s *CartState) Add(ctx context.Context, productID string, quantity int) error {
	return s.apply(s.api.AddToCart(ctx, productID, quantity, ""))
}

func (s *CartState) Update(ctx context.Context, itemID string, quantity int) error {
	return s.apply(s.api.UpdateCartItem(ctx, itemID, quantity))
}

func (s *CartState) Remove(ctx context.Context, itemID string) error {
	return s.apply(s.api.RemoveFromCart(ctx, itemID))
}

func (s *CartState) Clear(ctx context.Context) error {
	return s.apply(s.api.ClearCart(ctx))
}

// apply keeps the previous state when the mutation failed.
func (s *CartState) apply(cart *types.Cart, err error) error {
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

func (s *CartState) replace(cart *types.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart == nil {
		s.cart = types.EmptyCart()
		return
	}
	s.cart = *cart
	if s.cart.Items == nil {
		s.cart.Items = []types.CartLine{}
	}
}
