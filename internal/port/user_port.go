package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mahdibiabani/stone-store/internal/domain"
)

type UserRepository interface {
	// CreateUser inserts the user and provisions the profile in one
	// transaction. Returns domain.ErrUsernameTaken on a username conflict.
	CreateUser(ctx context.Context, user domain.User, profile domain.Profile) (domain.User, error)

	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (domain.User, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) error

	InsertToken(ctx context.Context, token string, userID uuid.UUID) error
	GetUserByToken(ctx context.Context, token string) (domain.User, error)
}
