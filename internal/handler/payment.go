package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type paymentResultData struct {
	Success     bool
	MessageEN   string
	MessageFA   string
	OrderNumber string
	RefID       string
}

// handlePaymentCallback is the gateway return URL. It always renders a result
// page; payment failures are an outcome to show the buyer, not an HTTP error.
func (s *Server) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	authority := r.URL.Query().Get("Authority")
	status := r.URL.Query().Get("Status")

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			if v := r.PostForm.Get("Authority"); v != "" {
				authority = v
			}
			if v := r.PostForm.Get("Status"); v != "" {
				status = v
			}
		}
	}

	if authority == "" {
		s.writeError(w, http.StatusBadRequest, "Missing Authority parameter")
		return
	}

	result := s.payments.HandleCallback(r.Context(), authority, status)

	s.renderResult(w, paymentResultData{
		Success:     result.Success,
		MessageEN:   result.MessageEN,
		MessageFA:   result.MessageFA,
		OrderNumber: result.OrderNumber,
		RefID:       result.RefID,
	})
}

func (s *Server) renderResult(w http.ResponseWriter, data paymentResultData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "payment_result.html", data); err != nil {
		s.logger.Error("render payment result", "error", err)
	}
}

type mockPaymentData struct {
	Authority   string
	Amount      int64
	Description string
	OrderNumber string
	CallbackURL string
}

// handleMockPayment simulates the gateway's payment page for local
// development. Registered only when mock payments are enabled.
func (s *Server) handleMockPayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	authority := q.Get("authority")
	amountRaw := q.Get("amount")
	description := q.Get("description")
	orderID := q.Get("order_id")

	amount, err := strconv.ParseInt(amountRaw, 10, 64)
	if authority == "" || amountRaw == "" || description == "" || orderID == "" || err != nil {
		s.renderResult(w, paymentResultData{
			Success:   false,
			MessageEN: "Invalid payment request",
			MessageFA: "درخواست پرداخت نامعتبر است",
		})
		return
	}

	orderNumber := "ORD-" + orderID
	if id, err := uuid.Parse(orderID); err == nil {
		if order, err := s.orders.GetOrder(r.Context(), id); err == nil {
			orderNumber = order.OrderNumber
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.templates.ExecuteTemplate(w, "mock_payment.html", mockPaymentData{
		Authority:   authority,
		Amount:      amount,
		Description: description,
		OrderNumber: orderNumber,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		s.logger.Error("render mock payment page", "error", err)
	}
}
