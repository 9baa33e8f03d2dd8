package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

// StatusOK is the gateway's callback status value for a completed payment;
// any other value means the user abandoned or cancelled the payment page.
const StatusOK = "OK"

type CallbackOutcome string

const (
	CallbackPaid          CallbackOutcome = "paid"
	CallbackAlreadyPaid   CallbackOutcome = "already_paid"
	CallbackAlreadyClosed CallbackOutcome = "already_closed"
	CallbackVerifyFailed  CallbackOutcome = "verify_failed"
	CallbackCancelled     CallbackOutcome = "cancelled"
	CallbackNotFound      CallbackOutcome = "not_found"
	CallbackError         CallbackOutcome = "error"
)

// CallbackResult is the one shape every callback branch produces. The view
// layer renders it; it never carries a raw error.
type CallbackResult struct {
	Success     bool
	Outcome     CallbackOutcome
	MessageEN   string
	MessageFA   string
	OrderNumber string
	RefID       string
}

type PaymentService struct {
	orders  port.OrderRepository
	gateway port.PaymentGateway
	codes   *domain.CodeGenerator
	logger  *slog.Logger
	now     func() time.Time
}

func NewPayment(orders port.OrderRepository, gateway port.PaymentGateway, codes *domain.CodeGenerator, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		orders:  orders,
		gateway: gateway,
		codes:   codes,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleCallback drives the order state machine keyed by the gateway
// authority. It never returns an error: every path, including unexpected
// repository failures, maps to a CallbackResult.
func (s *PaymentService) HandleCallback(ctx context.Context, authority, statusParam string) CallbackResult {
	order, err := s.orders.GetOrderByAuthority(ctx, authority)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return notFoundResult()
		}
		return s.errorResult(ctx, "", err)
	}

	// Terminal states answer idempotently, without touching the gateway.
	switch order.Status {
	case domain.OrderStatusPending:
		// fall through to processing
	case domain.OrderStatusPaid:
		return alreadyPaidResult(order.OrderNumber)
	default:
		return alreadyClosedResult(order)
	}

	if statusParam != StatusOK {
		return s.cancel(ctx, order, domain.PaymentStatusCancelled, CallbackResult{
			Outcome:     CallbackCancelled,
			MessageEN:   "Payment was cancelled by the user",
			MessageFA:   "پرداخت توسط کاربر لغو شد",
			OrderNumber: order.OrderNumber,
		})
	}

	verification := s.gateway.VerifyPayment(ctx, authority, order.TotalAmount.Amount.IntPart())
	if !verification.Success {
		s.logger.WarnContext(ctx, "payment verification failed",
			"order_number", order.OrderNumber, "error", verification.Error)

		return s.cancel(ctx, order, domain.PaymentStatusFailed, CallbackResult{
			Outcome:     CallbackVerifyFailed,
			MessageEN:   "Payment verification failed",
			MessageFA:   "تأیید پرداخت ناموفق بود",
			OrderNumber: order.OrderNumber,
		})
	}

	trackingCode := ""
	if order.TrackingCode != nil {
		trackingCode = *order.TrackingCode
	}
	if trackingCode == "" {
		trackingCode, err = s.codes.TrackingCode()
		if err != nil {
			return s.errorResult(ctx, order.OrderNumber, fmt.Errorf("codes.TrackingCode: %w", err))
		}
	}

	if err := s.orders.FinalizePaid(ctx, order.ID, trackingCode, s.now()); err != nil {
		if errors.Is(err, domain.ErrOrderFinalized) {
			// a concurrent callback finished first
			return s.refetchTerminal(ctx, order)
		}
		return s.errorResult(ctx, order.OrderNumber, fmt.Errorf("orders.FinalizePaid: %w", err))
	}

	s.logger.InfoContext(ctx, "payment completed",
		"order_number", order.OrderNumber, "ref_id", verification.RefID)

	return CallbackResult{
		Success:     true,
		Outcome:     CallbackPaid,
		MessageEN:   "Payment completed successfully",
		MessageFA:   "پرداخت با موفقیت انجام شد",
		OrderNumber: order.OrderNumber,
		RefID:       verification.RefID,
	}
}

func (s *PaymentService) cancel(ctx context.Context, order domain.Order, paymentStatus domain.PaymentStatus, result CallbackResult) CallbackResult {
	if err := s.orders.MarkCancelled(ctx, order.ID, paymentStatus); err != nil {
		if errors.Is(err, domain.ErrOrderFinalized) {
			return s.refetchTerminal(ctx, order)
		}
		return s.errorResult(ctx, order.OrderNumber, fmt.Errorf("orders.MarkCancelled: %w", err))
	}

	return result
}

// refetchTerminal re-reads an order that lost the transition race and
// reports its settled state.
func (s *PaymentService) refetchTerminal(ctx context.Context, order domain.Order) CallbackResult {
	current, err := s.orders.GetOrder(ctx, order.ID)
	if err != nil {
		return s.errorResult(ctx, order.OrderNumber, fmt.Errorf("orders.GetOrder: %w", err))
	}

	if current.Status == domain.OrderStatusPaid {
		return alreadyPaidResult(current.OrderNumber)
	}

	return alreadyClosedResult(current)
}

func (s *PaymentService) errorResult(ctx context.Context, orderNumber string, err error) CallbackResult {
	s.logger.ErrorContext(ctx, "payment callback failed",
		"order_number", orderNumber, "error", err)

	return CallbackResult{
		Outcome:     CallbackError,
		MessageEN:   fmt.Sprintf("Payment processing error: %s", err),
		MessageFA:   fmt.Sprintf("خطا در پردازش پرداخت: %s", err),
		OrderNumber: orderNumber,
	}
}

func notFoundResult() CallbackResult {
	return CallbackResult{
		Outcome:   CallbackNotFound,
		MessageEN: "Order not found",
		MessageFA: "سفارش یافت نشد",
	}
}

func alreadyPaidResult(orderNumber string) CallbackResult {
	return CallbackResult{
		Success:     true,
		Outcome:     CallbackAlreadyPaid,
		MessageEN:   "Payment has already been completed",
		MessageFA:   "پرداخت قبلاً با موفقیت انجام شده است",
		OrderNumber: orderNumber,
	}
}

func alreadyClosedResult(order domain.Order) CallbackResult {
	return CallbackResult{
		Outcome:     CallbackAlreadyClosed,
		MessageEN:   fmt.Sprintf("Order has already been %s", order.Status),
		MessageFA:   fmt.Sprintf("سفارش قبلاً %s شده است", order.Status),
		OrderNumber: order.OrderNumber,
	}
}
