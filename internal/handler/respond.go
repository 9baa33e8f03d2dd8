package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/service"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps domain and service errors to HTTP responses.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	var rejected *service.RejectedError

	switch {
	case errors.As(err, &rejected):
		s.writeError(w, http.StatusBadRequest, rejected.Reason)
	case errors.Is(err, service.ErrInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, domain.ErrUsernameTaken):
		s.writeError(w, http.StatusBadRequest, "username is already taken")
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrStoneNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
