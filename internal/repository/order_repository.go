package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}
	if order.OrderNumber == "" {
		return o, errors.New("order number is empty")
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentStatusPending
	}

	inserted, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, owner_id, order_number, status, total_amount, total_currency,
			                    payment_id, payment_status,
			                    shipping_address, shipping_city, shipping_postal_code, shipping_phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING created_at, updated_at`,
			order.ID, order.OwnerID, order.OrderNumber, string(order.Status),
			order.TotalAmount.Amount.String(), order.TotalAmount.Currency.String(),
			order.PaymentID, string(order.PaymentStatus),
			order.Shipping.Address, order.Shipping.City, order.Shipping.PostalCode, order.Shipping.Phone,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return o, fmt.Errorf("insert order: %w", err)
		}

		for i, item := range order.Items {
			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (id, order_id, stone_id, quantity, price_amount, price_currency,
				                         selected_finish, selected_thickness, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING created_at`,
				uuid.New(), order.ID, item.StoneID, item.Quantity,
				item.Price.Amount.String(), item.Price.Currency.String(),
				item.SelectedFinish, item.SelectedThickness, item.Notes,
			).Scan(&order.Items[i].CreatedAt)
			if err != nil {
				return o, fmt.Errorf("insert order item: %w", err)
			}
		}

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return inserted, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return r.getOrder(ctx, r.pool, `WHERE id = $1`, orderID)
}

func (r *orderRepository) GetOrderByAuthority(ctx context.Context, authority string) (domain.Order, error) {
	if authority == "" {
		return domain.Order{}, fmt.Errorf("authority is empty")
	}

	return r.getOrder(ctx, r.pool, `WHERE payment_id = $1`, authority)
}

func (r *orderRepository) getOrder(ctx context.Context, q querier, where string, arg any) (domain.Order, error) {
	var o domain.Order

	row := q.QueryRow(ctx, `
		SELECT id, owner_id, order_number, tracking_code, status, total_amount::text, total_currency,
		       payment_id, payment_status, payment_date,
		       shipping_address, shipping_city, shipping_postal_code, shipping_phone,
		       created_at, updated_at
		FROM orders `+where, arg)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, domain.ErrOrderNotFound
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	items, err := r.getOrderItems(ctx, q, order.ID)
	if err != nil {
		return o, fmt.Errorf("getOrderItems: %w", err)
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT stone_id, quantity, price_amount::text, price_currency,
		       selected_finish, selected_thickness, notes, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item         domain.OrderItem
			amount, code string
		)

		if err := rows.Scan(&item.StoneID, &item.Quantity, &amount, &code,
			&item.SelectedFinish, &item.SelectedThickness, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		item.Price, err = moneyFromDB(amount, code)
		if err != nil {
			return nil, fmt.Errorf("moneyFromDB: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, order_number, tracking_code, status, total_amount::text, total_currency,
		       payment_id, payment_status, payment_date,
		       shipping_address, shipping_city, shipping_postal_code, shipping_phone,
		       created_at, updated_at
		FROM orders
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		items, err := r.getOrderItems(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("getOrderItems: %w", err)
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) SetPaymentAuthority(ctx context.Context, orderID uuid.UUID, authority string) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if authority == "" {
		return fmt.Errorf("authority is empty")
	}

	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE orders SET payment_id = $2, updated_at = now()
		WHERE id = $1`, orderID, authority)
	if err != nil {
		return fmt.Errorf("update payment_id: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) FinalizePaid(ctx context.Context, orderID uuid.UUID, trackingCode string, paidAt time.Time) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if trackingCode == "" {
		return fmt.Errorf("trackingCode is empty")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		// The status condition is the idempotency guard: a concurrent
		// callback that already finalized the order makes this a no-op.
		var (
			ownerID, orderNumber       string
			finalCode                  string
			totalAmount, totalCurrency string
		)
		err := tx.QueryRow(ctx, `
			UPDATE orders
			SET status = $2, payment_status = $3, payment_date = $4,
			    tracking_code = COALESCE(tracking_code, $5), updated_at = now()
			WHERE id = $1 AND status = $6
			RETURNING owner_id, order_number, tracking_code, total_amount::text, total_currency`,
			orderID, string(domain.OrderStatusPaid), string(domain.PaymentStatusCompleted),
			paidAt, trackingCode, string(domain.OrderStatusPending),
		).Scan(&ownerID, &orderNumber, &finalCode, &totalAmount, &totalCurrency)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return zero, r.classifyMissedUpdate(ctx, tx, orderID)
			}
			return zero, fmt.Errorf("update order: %w", err)
		}

		// Clearing the cart rides in the same transaction as the paid
		// transition: this is the only place carts are emptied.
		if _, err := tx.Exec(ctx, `
			DELETE FROM cart_items
			WHERE cart_id IN (SELECT id FROM carts WHERE owner_id = $1 AND is_active)`, ownerID); err != nil {
			return zero, fmt.Errorf("clear cart items: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE carts SET is_active = FALSE, updated_at = now()
			WHERE owner_id = $1 AND is_active`, ownerID); err != nil {
			return zero, fmt.Errorf("deactivate cart: %w", err)
		}

		payload, err := json.Marshal(map[string]any{
			"order_id":      orderID,
			"order_number":  orderNumber,
			"owner_id":      ownerID,
			"tracking_code": finalCode,
			"total_amount":  totalAmount,
			"currency":      totalCurrency,
			"paid_at":       paidAt,
		})
		if err != nil {
			return zero, fmt.Errorf("json.Marshal: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO outbox (event_type, payload) VALUES ($1, $2)`,
			"order.paid", payload); err != nil {
			return zero, fmt.Errorf("insert outbox: %w", err)
		}

		return zero, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *orderRepository) MarkCancelled(ctx context.Context, orderID uuid.UUID, paymentStatus domain.PaymentStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $2, payment_status = $3, updated_at = now()
		WHERE id = $1 AND status = $4`,
		orderID, string(domain.OrderStatusCancelled), string(paymentStatus),
		string(domain.OrderStatusPending))
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, r.pool, orderID)
	}

	return nil
}

// classifyMissedUpdate tells a vanished order apart from one that left the
// pending state before the guarded update ran.
func (r *orderRepository) classifyMissedUpdate(ctx context.Context, q querier, orderID uuid.UUID) error {
	var status string
	if err := q.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("select status: %w", err)
	}

	return domain.ErrOrderFinalized
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	// order_items cascade with the order row
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o             domain.Order
		trackingCode  *string
		status        string
		paymentStatus string
		amount, code  string
	)

	if err := row.Scan(&o.ID, &o.OwnerID, &o.OrderNumber, &trackingCode, &status, &amount, &code,
		&o.PaymentID, &paymentStatus, &o.PaymentDate,
		&o.Shipping.Address, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Phone,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}

	parsedStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	total, err := moneyFromDB(amount, code)
	if err != nil {
		return o, fmt.Errorf("moneyFromDB: %w", err)
	}

	o.TrackingCode = trackingCode
	o.Status = parsedStatus
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	o.TotalAmount = total

	return o, nil
}
