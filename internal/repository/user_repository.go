package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/port"
)

const uniqueViolation = "23505"

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User, profile domain.Profile) (domain.User, error) {
	var u domain.User

	if user.Username == "" {
		return u, fmt.Errorf("username is empty")
	}
	if user.PasswordHash == "" {
		return u, fmt.Errorf("password hash is empty")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	// User and profile rows are provisioned together: the profile is part of
	// the registration operation, not a side effect.
	created, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.User, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (id, username, email, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at`,
			user.ID, user.Username, user.Email, user.PasswordHash).
			Scan(&user.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return u, domain.ErrUsernameTaken
			}
			return u, fmt.Errorf("insert user: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, phone, address)
			VALUES ($1, $2, $3)`,
			user.ID, profile.Phone, profile.Address); err != nil {
			return u, fmt.Errorf("insert profile: %w", err)
		}

		return user, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return u, domain.ErrUsernameTaken
		}
		return u, fmt.Errorf("withTx: %w", err)
	}

	return created, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, userID)
}

func (r *userRepository) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users `+where, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, domain.ErrUserNotFound
		}
		return u, fmt.Errorf("select user: %w", err)
	}

	return u, nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	var p domain.Profile

	err := r.pool.QueryRow(ctx, `
		SELECT user_id, phone, address, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrUserNotFound
		}
		return p, fmt.Errorf("select profile: %w", err)
	}

	return p, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	cmdTag, err := r.pool.Exec(ctx, `
		UPDATE user_profiles SET phone = $2, address = $3, updated_at = now()
		WHERE user_id = $1`,
		profile.UserID, profile.Phone, profile.Address)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) InsertToken(ctx context.Context, token string, userID uuid.UUID) error {
	if token == "" {
		return fmt.Errorf("token is empty")
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO auth_tokens (token, user_id)
		VALUES ($1, $2)`, token, userID); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1`, token).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, domain.ErrTokenNotFound
		}
		return u, fmt.Errorf("select user by token: %w", err)
	}

	return u, nil
}
