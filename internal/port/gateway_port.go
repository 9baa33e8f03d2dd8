package port

import (
	"context"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

// PaymentGateway abstracts the hosted-payment-page provider. Both calls
// report expected failures inside the result value and never return errors,
// so callers handle exactly one shape.
type PaymentGateway interface {
	CreatePaymentRequest(ctx context.Context, req domain.PaymentRequest) domain.PaymentRequestResult

	// VerifyPayment must be called with the exact amount used at request
	// time; the gateway's behavior on mismatch is passed through as-is.
	VerifyPayment(ctx context.Context, authority string, amount int64) domain.PaymentVerification
}
