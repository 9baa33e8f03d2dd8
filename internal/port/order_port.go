package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mahdibiabani/stone-store/internal/domain"
)

type OrderRepository interface {
	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderByAuthority(ctx context.Context, authority string) (domain.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)

	SetPaymentAuthority(ctx context.Context, orderID uuid.UUID, authority string) error

	// FinalizePaid performs the paid transition atomically: status and payment
	// fields, tracking code if absent, clearing and deactivating the owner's
	// cart and recording the order.paid outbox event. Returns
	// domain.ErrOrderFinalized if the order is no longer pending.
	FinalizePaid(ctx context.Context, orderID uuid.UUID, trackingCode string, paidAt time.Time) error

	// MarkCancelled moves a pending order to cancelled with the given payment
	// status. Returns domain.ErrOrderFinalized if the order is not pending.
	MarkCancelled(ctx context.Context, orderID uuid.UUID, paymentStatus domain.PaymentStatus) error

	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
