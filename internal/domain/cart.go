package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrCartItemNotFound = fmt.Errorf("cart item not found")

// Cart is the single active cart of one owner. Inactive carts are kept for
// history; a fresh one is created on next use.
type Cart struct {
	ID       uuid.UUID
	OwnerID  string
	IsActive bool
	Items    []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID                uuid.UUID
	Stone             Stone
	Quantity          int
	SelectedFinish    string
	SelectedThickness string
	Notes             string

	CreatedAt time.Time
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
