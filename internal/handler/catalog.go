package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

const featuredLimit = 6

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.stones.ListCategories(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, lo.Map(categories, func(c domain.Category, _ int) categoryJSON {
		return toCategoryJSON(c)
	}))
}

func (s *Server) handleListStones(w http.ResponseWriter, r *http.Request) {
	filter := domain.StoneFilter{
		CategorySlug: r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("search"),
	}

	stones, err := s.stones.ListStones(r.Context(), filter)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, lo.Map(stones, func(st domain.Stone, _ int) stoneJSON {
		return toStoneJSON(st)
	}))
}

func (s *Server) handleFeaturedStones(w http.ResponseWriter, r *http.Request) {
	stones, err := s.stones.FeaturedStones(r.Context(), featuredLimit)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, lo.Map(stones, func(st domain.Stone, _ int) stoneJSON {
		return toStoneJSON(st)
	}))
}

func (s *Server) handleGetStone(w http.ResponseWriter, r *http.Request) {
	stoneID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid stone id")
		return
	}

	stone, err := s.stones.GetStone(r.Context(), stoneID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toStoneJSON(stone))
}
