package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
	"github.com/shopspring/decimal"
)

// RejectedError marks expected checkout rejections: invalid input, unpriced
// items, gateway refusal. Anything else is an internal failure.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

func reject(format string, args ...any) error {
	return &RejectedError{Reason: fmt.Sprintf(format, args...)}
}

type CheckoutResult struct {
	Order      domain.Order
	PaymentURL string
	Authority  string
}

type CheckoutService struct {
	orders  port.OrderRepository
	carts   port.CartRepository
	gateway port.PaymentGateway
	codes   *domain.CodeGenerator
	logger  *slog.Logger
}

func NewCheckout(orders port.OrderRepository, carts port.CartRepository, gateway port.PaymentGateway, codes *domain.CodeGenerator, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:  orders,
		carts:   carts,
		gateway: gateway,
		codes:   codes,
		logger:  logger,
	}
}

// Checkout turns the owner's active cart into a pending order and opens a
// payment with the gateway. The cart is left untouched in every outcome:
// clearing happens only when the payment callback confirms the payment.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID, email string, shipping domain.ShippingInfo) (CheckoutResult, error) {
	var res CheckoutResult

	cart, err := s.carts.GetActiveCart(ctx, ownerID)
	if err != nil {
		return res, fmt.Errorf("carts.GetActiveCart: %w", err)
	}

	if cart.IsEmpty() {
		return res, reject("cart is empty")
	}

	if err := shipping.Validate(); err != nil {
		return res, &RejectedError{Reason: err.Error()}
	}

	total, err := cartTotal(cart)
	if err != nil {
		return res, err
	}

	orderNumber, err := s.codes.OrderNumber()
	if err != nil {
		return res, fmt.Errorf("codes.OrderNumber: %w", err)
	}

	order := domain.Order{
		OwnerID:     ownerID,
		OrderNumber: orderNumber,
		Status:      domain.OrderStatusPending,
		TotalAmount: total,
		Shipping:    shipping,
		Items:       orderItemsFromCart(cart),
	}

	// Order and line items commit first; the gateway call stays outside the
	// transaction and a failure is undone with a compensating delete.
	order, err = s.orders.InsertOrder(ctx, order)
	if err != nil {
		return res, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	gres := s.gateway.CreatePaymentRequest(ctx, domain.PaymentRequest{
		Amount:      total.Amount.IntPart(),
		Description: fmt.Sprintf("Order %s - Stone Store Purchase", order.OrderNumber),
		OrderID:     order.ID,
		Email:       email,
		Phone:       shipping.Phone,
	})
	if !gres.Success {
		s.compensate(ctx, order)
		return res, reject("%s", gres.Error)
	}

	if err := s.orders.SetPaymentAuthority(ctx, order.ID, gres.Authority); err != nil {
		s.compensate(ctx, order)
		return res, fmt.Errorf("orders.SetPaymentAuthority: %w", err)
	}
	order.PaymentID = gres.Authority

	s.logger.InfoContext(ctx, "checkout completed",
		"order_number", order.OrderNumber,
		"owner_id", ownerID,
		"total", total.Amount.String())

	return CheckoutResult{
		Order:      order,
		PaymentURL: gres.PaymentURL,
		Authority:  gres.Authority,
	}, nil
}

// compensate removes an order whose payment request could not be opened, so
// no orphaned pending order stays behind.
func (s *CheckoutService) compensate(ctx context.Context, order domain.Order) {
	if err := s.orders.DeleteOrder(ctx, order.ID); err != nil {
		s.logger.ErrorContext(ctx, "compensating delete failed",
			"order_number", order.OrderNumber, "error", err)
	}
}

// cartTotal sums price × quantity with decimal arithmetic. Every item must
// carry a price in the same currency and the total must be positive.
func cartTotal(cart domain.Cart) (domain.Money, error) {
	var m domain.Money

	total := decimal.Zero
	unit := domain.DefaultCurrency

	for i, item := range cart.Items {
		if item.Stone.Price == nil {
			return m, reject("price not set for stone: %s", item.Stone.NameEN)
		}

		if i == 0 {
			unit = item.Stone.Price.Currency
		} else if item.Stone.Price.Currency.String() != unit.String() {
			return m, reject("cart items have mixed currencies")
		}

		total = total.Add(item.Stone.Price.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if !total.IsPositive() {
		return m, reject("invalid total amount")
	}

	return domain.Money{Amount: total, Currency: unit}, nil
}

func orderItemsFromCart(cart domain.Cart) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(cart.Items))

	for _, ci := range cart.Items {
		items = append(items, domain.OrderItem{
			StoneID:           ci.Stone.ID,
			Quantity:          ci.Quantity,
			Price:             *ci.Stone.Price,
			SelectedFinish:    ci.SelectedFinish,
			SelectedThickness: ci.SelectedThickness,
			Notes:             ci.Notes,
		})
	}

	return items
}
