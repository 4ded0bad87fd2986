package cart

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ErrItemNotFound reports that an item id does not exist in the caller's cart.
var ErrItemNotFound = errors.New("cart item not found")

// Repository defines the persistence surface required by the cart service.
// Item mutations are always scoped by cart id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	ListItems(ctx context.Context, cartID string) ([]models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
}

// ProductLookup is the slice of the product store the cart joins against.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
