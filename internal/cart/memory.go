package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryRepository keeps carts in process memory, guarded by a single mutex.
type MemoryRepository struct {
	mu     sync.RWMutex
	carts  map[string]*models.Cart       // by user id
	items  map[string][]*models.CartItem // by cart id
	nowFn  func() time.Time
	serial int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]*models.Cart),
		items: make(map[string][]*models.CartItem),
		nowFn: time.Now,
	}
}

// WithTx is a no-op; every call already holds the lock for its duration.
func (r *MemoryRepository) WithTx(*gorm.DB) Repository {
	return r
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.carts[userID]; ok {
		out := *c
		return &out, nil
	}
	now := r.nowFn().UTC()
	c := &models.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.carts[userID] = c
	out := *c
	return &out, nil
}

func (r *MemoryRepository) ListItems(_ context.Context, cartID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.items[cartID]
	out := make([]models.CartItem, 0, len(stored))
	for _, it := range stored {
		out = append(out, *it)
	}
	return out, nil
}

func (r *MemoryRepository) FindItemByProduct(_ context.Context, cartID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items[cartID] {
		if it.ProductID == productID {
			out := *it
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) CreateItem(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	r.serial++
	now := r.nowFn().UTC().Add(time.Duration(r.serial))
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := *item
	r.items[item.CartID] = append(r.items[item.CartID], &stored)
	return item, nil
}

func (r *MemoryRepository) UpdateItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items[cartID] {
		if it.ID == itemID {
			it.Quantity = quantity
			it.UpdatedAt = r.nowFn().UTC()
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *MemoryRepository) DeleteItem(_ context.Context, cartID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.items[cartID]
	for i, it := range stored {
		if it.ID == itemID {
			r.items[cartID] = append(stored[:i:i], stored[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *MemoryRepository) ClearItems(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, cartID)
	return nil
}
