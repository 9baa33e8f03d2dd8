package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = fmt.Errorf("user not found")
	ErrUsernameTaken = fmt.Errorf("username already taken")
	ErrTokenNotFound = fmt.Errorf("token not found")
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}

// Profile is provisioned explicitly by the registration operation, in the
// same transaction as the user row.
type Profile struct {
	UserID  uuid.UUID
	Phone   string
	Address string

	CreatedAt time.Time
	UpdatedAt time.Time
}
