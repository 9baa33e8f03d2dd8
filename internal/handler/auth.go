package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/service"
)

type ctxKey int

const userKey ctxKey = 0

func userFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

// requireAuth resolves "Authorization: Token <key>" to a user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Token ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}

		user, err := s.accounts.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, authResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, authResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	profile, err := s.accounts.Profile(r.Context(), user.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profileResponse{
		Username: user.Username,
		Email:    user.Email,
		Phone:    profile.Phone,
		Address:  profile.Address,
	})
}

type updateProfileRequest struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.accounts.Profile(r.Context(), user.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}

	if err := s.accounts.UpdateProfile(r.Context(), profile); err != nil {
		s.serviceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profileResponse{
		Username: user.Username,
		Email:    user.Email,
		Phone:    profile.Phone,
		Address:  profile.Address,
	})
}
