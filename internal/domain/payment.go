package domain

import "github.com/google/uuid"

// PaymentRequest describes one hosted-payment-page request. Amount is in the
// gateway's integral currency unit.
type PaymentRequest struct {
	Amount      int64
	Description string
	OrderID     uuid.UUID
	Email       string
	Phone       string
}

// PaymentRequestResult is the gateway's answer to a payment request. It is a
// plain value, never an error: expected gateway failures are data.
type PaymentRequestResult struct {
	Success    bool
	Authority  string
	PaymentURL string
	Error      string
}

// PaymentVerification is the gateway's answer to a verification call.
type PaymentVerification struct {
	Success  bool
	RefID    string
	CardPAN  string
	CardHash string
	FeeType  string
	Fee      int64
	Error    string
}
