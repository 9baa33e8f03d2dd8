package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mahdibiabani/stone-store/internal/domain"
)

type CartRepository interface {
	// GetActiveCart returns the owner's active cart, creating one if needed.
	GetActiveCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// AddItem adds a stone to the active cart; adding a stone already in the
	// cart increases its quantity instead.
	AddItem(ctx context.Context, ownerID string, stoneID uuid.UUID, quantity int, finish, thickness, notes string) (domain.CartItem, error)

	// UpdateItemQuantity sets the quantity of a cart item; a quantity of zero
	// or less removes the item.
	UpdateItemQuantity(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) error

	RemoveItem(ctx context.Context, ownerID string, itemID uuid.UUID) (bool, error)

	ClearItems(ctx context.Context, ownerID string) error
}
