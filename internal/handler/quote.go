package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

type quoteItemRequest struct {
	StoneID  string `json:"stone_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type quoteRequest struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Company         string             `json:"company"`
	Phone           string             `json:"phone"`
	ProjectType     string             `json:"project_type"`
	ProjectLocation string             `json:"project_location"`
	Timeline        string             `json:"timeline"`
	AdditionalNotes string             `json:"additional_notes"`
	Items           []quoteItemRequest `json:"items"`
}

// handleSubmitQuote accepts quote requests from visitors and signed-in users
// alike. A valid token links the quote to the account, a missing one is fine.
func (s *Server) handleSubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var items []domain.QuoteItem
	for _, item := range req.Items {
		stoneID, err := uuid.Parse(item.StoneID)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid stone id")
			return
		}
		items = append(items, domain.QuoteItem{
			StoneID:  stoneID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	quote := domain.Quote{
		OwnerID:         s.optionalOwner(r),
		Name:            req.Name,
		Email:           req.Email,
		Company:         req.Company,
		Phone:           req.Phone,
		ProjectType:     req.ProjectType,
		ProjectLocation: req.ProjectLocation,
		Timeline:        req.Timeline,
		AdditionalNotes: req.AdditionalNotes,
		Status:          domain.QuoteStatusPending,
		Items:           items,
	}

	if err := quote.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.quotes.InsertQuote(r.Context(), quote)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":     created.ID.String(),
		"status": string(created.Status),
	})
}

func (s *Server) optionalOwner(r *http.Request) *string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")
	if !ok || token == "" {
		return nil
	}

	user, err := s.accounts.Authenticate(r.Context(), token)
	if err != nil {
		return nil
	}

	return lo.ToPtr(user.ID.String())
}
