package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

type cartRepository struct {
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) GetActiveCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	cart, err := r.ensureCart(ctx, ownerID)
	if err != nil {
		return c, fmt.Errorf("ensureCart: %w", err)
	}

	items, err := r.getItems(ctx, cart.ID)
	if err != nil {
		return c, fmt.Errorf("getItems: %w", err)
	}
	cart.Items = items

	return cart, nil
}

// ensureCart returns the owner's active cart, creating one if none exists.
// The partial unique index on (owner_id) WHERE is_active makes the insert
// race-safe.
func (r *cartRepository) ensureCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	if ownerID == "" {
		return c, fmt.Errorf("ownerID is empty")
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO carts (id, owner_id)
		VALUES ($1, $2)
		ON CONFLICT (owner_id) WHERE is_active DO NOTHING`,
		uuid.New(), ownerID); err != nil {
		return c, fmt.Errorf("insert cart: %w", err)
	}

	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, is_active, created_at, updated_at
		FROM carts
		WHERE owner_id = $1 AND is_active`, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, fmt.Errorf("select cart: %w", err)
	}

	return c, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, stoneID uuid.UUID, quantity int, finish, thickness, notes string) (domain.CartItem, error) {
	var item domain.CartItem

	if quantity < 1 {
		return item, fmt.Errorf("quantity must be at least 1")
	}

	stone, err := r.getActiveStone(ctx, stoneID)
	if err != nil {
		return item, fmt.Errorf("getActiveStone: %w", err)
	}

	cart, err := r.ensureCart(ctx, ownerID)
	if err != nil {
		return item, fmt.Errorf("ensureCart: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (id, cart_id, stone_id, quantity, selected_finish, selected_thickness, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (cart_id, stone_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity, selected_finish, selected_thickness, notes, created_at`,
		uuid.New(), cart.ID, stoneID, quantity, finish, thickness, notes).
		Scan(&item.ID, &item.Quantity, &item.SelectedFinish, &item.SelectedThickness, &item.Notes, &item.CreatedAt)
	if err != nil {
		return item, fmt.Errorf("upsert cart item: %w", err)
	}

	item.Stone = stone

	return item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		found, err := r.RemoveItem(ctx, ownerID, itemID)
		if err != nil {
			return fmt.Errorf("RemoveItem: %w", err)
		}
		if !found {
			return domain.ErrCartItemNotFound
		}
		return nil
	}

	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = $3
		WHERE id = $2
		  AND cart_id IN (SELECT id FROM carts WHERE owner_id = $1 AND is_active)`,
		ownerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, ownerID string, itemID uuid.UUID) (bool, error) {
	cmdTag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE id = $2
		  AND cart_id IN (SELECT id FROM carts WHERE owner_id = $1 AND is_active)`,
		ownerID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) ClearItems(ctx context.Context, ownerID string) error {
	if _, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id IN (SELECT id FROM carts WHERE owner_id = $1 AND is_active)`,
		ownerID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	return nil
}

func (r *cartRepository) getItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.quantity, ci.selected_finish, ci.selected_thickness, ci.notes, ci.created_at,
		       `+stoneColumns("s")+`
		FROM cart_items ci
		JOIN stones s ON s.id = ci.stone_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem

		dests := []any{&item.ID, &item.Quantity, &item.SelectedFinish, &item.SelectedThickness, &item.Notes, &item.CreatedAt}

		stone, err := scanStoneInto(rows, dests)
		if err != nil {
			return nil, fmt.Errorf("scanStoneInto: %w", err)
		}
		item.Stone = stone

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *cartRepository) getActiveStone(ctx context.Context, stoneID uuid.UUID) (domain.Stone, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+stoneColumns("")+`
		FROM stones
		WHERE id = $1 AND is_active`, stoneID)

	stone, err := scanStone(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stone{}, domain.ErrStoneNotFound
		}
		return domain.Stone{}, fmt.Errorf("scanStone: %w", err)
	}

	return stone, nil
}
