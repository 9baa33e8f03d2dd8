package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Address  string
}

func (in RegisterInput) Validate() error {
	if in.Username == "" {
		return &RejectedError{Reason: "username is required"}
	}
	if in.Email == "" {
		return &RejectedError{Reason: "email is required"}
	}
	if len(in.Password) < 8 {
		return &RejectedError{Reason: "password must be at least 8 characters"}
	}

	return nil
}

type AccountService struct {
	users       port.UserRepository
	tokenSource io.Reader
	logger      *slog.Logger
}

func NewAccount(users port.UserRepository, tokenSource io.Reader, logger *slog.Logger) *AccountService {
	if tokenSource == nil {
		tokenSource = rand.Reader
	}

	return &AccountService{
		users:       users,
		tokenSource: tokenSource,
		logger:      logger,
	}
}

// Register creates the user, provisions the profile in the same transaction
// and issues an auth token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	var u domain.User

	if err := in.Validate(); err != nil {
		return u, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return u, "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	user, err := s.users.CreateUser(ctx,
		domain.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: string(hash),
		},
		domain.Profile{
			Phone:   in.Phone,
			Address: in.Address,
		})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return u, "", &RejectedError{Reason: "username already taken"}
		}
		return u, "", fmt.Errorf("users.CreateUser: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return u, "", fmt.Errorf("issueToken: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "username", user.Username)

	return user, token, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	var u domain.User

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return u, "", ErrInvalidCredentials
		}
		return u, "", fmt.Errorf("users.GetUserByUsername: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return u, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return u, "", fmt.Errorf("issueToken: %w", err)
	}

	return user, token, nil
}

func (s *AccountService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	user, err := s.users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("users.GetUserByToken: %w", err)
	}

	return user, nil
}

func (s *AccountService) Profile(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("users.GetProfile: %w", err)
	}

	return profile, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("users.UpdateProfile: %w", err)
	}

	return nil
}

func (s *AccountService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 20)
	if _, err := io.ReadFull(s.tokenSource, buf); err != nil {
		return "", fmt.Errorf("io.ReadFull: %w", err)
	}

	token := hex.EncodeToString(buf)

	if err := s.users.InsertToken(ctx, token, userID); err != nil {
		return "", fmt.Errorf("users.InsertToken: %w", err)
	}

	return token, nil
}
