package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

type checkoutRequest struct {
	Shipping struct {
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
		Phone      string `json:"phone"`
	} `json:"shipping"`
}

type checkoutResponse struct {
	Order      orderJSON `json:"order"`
	PaymentURL string    `json:"payment_url"`
	Authority  string    `json:"authority"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.checkout.Checkout(r.Context(), user.ID.String(), user.Email, domain.ShippingInfo{
		Address:    req.Shipping.Address,
		City:       req.Shipping.City,
		PostalCode: req.Shipping.PostalCode,
		Phone:      req.Shipping.Phone,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, checkoutResponse{
		Order:      toOrderJSON(result.Order),
		PaymentURL: result.PaymentURL,
		Authority:  result.Authority,
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	orders, err := s.orders.ListOrders(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderJSON {
		return toOrderJSON(o)
	}))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	// orders are visible to their owner only
	if order.OwnerID != user.ID.String() {
		s.writeError(w, http.StatusNotFound, domain.ErrOrderNotFound.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderJSON(order))
}
