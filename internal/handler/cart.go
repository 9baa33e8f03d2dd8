package handler

import (
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	cart, err := s.carts.GetActiveCart(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCartJSON(cart))
}

type addCartItemRequest struct {
	StoneID           string `json:"stone_id"`
	Quantity          int    `json:"quantity"`
	SelectedFinish    string `json:"selected_finish"`
	SelectedThickness string `json:"selected_thickness"`
	Notes             string `json:"notes"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stoneID, err := uuid.Parse(req.StoneID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid stone id")
		return
	}

	if req.Quantity < 1 {
		s.writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	_, err = s.carts.AddItem(r.Context(), user.ID.String(), stoneID, req.Quantity,
		req.SelectedFinish, req.SelectedThickness, req.Notes)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	cart, err := s.carts.GetActiveCart(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toCartJSON(cart))
}

type updateCartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.carts.UpdateItemQuantity(r.Context(), user.ID.String(), itemID, req.Quantity); err != nil {
		s.serviceError(w, err)
		return
	}

	cart, err := s.carts.GetActiveCart(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCartJSON(cart))
}

type removeCartItemRequest struct {
	ItemID string `json:"item_id"`
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req removeCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	removed, err := s.carts.RemoveItem(r.Context(), user.ID.String(), itemID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "cart item not found")
		return
	}

	cart, err := s.carts.GetActiveCart(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCartJSON(cart))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	if err := s.carts.ClearItems(r.Context(), user.ID.String()); err != nil {
		s.serviceError(w, err)
		return
	}

	cart, err := s.carts.GetActiveCart(r.Context(), user.ID.String())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toCartJSON(cart))
}
