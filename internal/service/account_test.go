package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/service"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]domain.User
	profiles map[uuid.UUID]domain.Profile
	tokens   map[string]uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[uuid.UUID]domain.User{},
		profiles: map[uuid.UUID]domain.Profile{},
		tokens:   map[string]uuid.UUID{},
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user domain.User, profile domain.Profile) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username {
			return domain.User{}, domain.ErrUsernameTaken
		}
	}

	user.ID = uuid.New()
	f.users[user.ID] = user

	profile.UserID = user.ID
	f.profiles[user.ID] = profile

	return user, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrUserNotFound
	}
	return profile, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, profile domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[profile.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserRepo) InsertToken(_ context.Context, token string, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokens[token] = userID
	return nil
}

func (f *fakeUserRepo) GetUserByToken(_ context.Context, token string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID, ok := f.tokens[token]
	if !ok {
		return domain.User{}, domain.ErrTokenNotFound
	}
	return f.users[userID], nil
}

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()

	tokenBytes := bytes.Repeat([]byte{0x5a}, 40)
	svc := service.NewAccount(users, bytes.NewReader(tokenBytes), discardLogger())

	user, token, err := svc.Register(t.Context(), service.RegisterInput{
		Username: "mahdi",
		Email:    "mahdi@example.com",
		Password: "s3cret-pass",
		Phone:    "+989121234567",
		Address:  "12 Enghelab Ave",
	})
	require.NoError(t, err)

	assert.Equal(t, "mahdi", user.Username)
	assert.Len(t, token, 40)

	// the password is stored hashed, never verbatim
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))

	// profile provisioned with the registration
	profile, err := users.GetProfile(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+989121234567", profile.Phone)
	assert.Equal(t, "12 Enghelab Ave", profile.Address)

	// the token authenticates
	authed, err := svc.Authenticate(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc := service.NewAccount(newFakeUserRepo(), nil, discardLogger())

	tests := []struct {
		name      string
		input     service.RegisterInput
		wantError string
	}{
		{
			name:      "missing username",
			input:     service.RegisterInput{Email: "a@b.c", Password: "longenough"},
			wantError: "username is required",
		},
		{
			name:      "missing email",
			input:     service.RegisterInput{Username: "x", Password: "longenough"},
			wantError: "email is required",
		},
		{
			name:      "short password",
			input:     service.RegisterInput{Username: "x", Email: "a@b.c", Password: "short"},
			wantError: "password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(t.Context(), tt.input)

			var rejected *service.RejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.wantError, rejected.Reason)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := service.NewAccount(newFakeUserRepo(), nil, discardLogger())

	input := service.RegisterInput{
		Username: "mahdi",
		Email:    "mahdi@example.com",
		Password: "s3cret-pass",
	}

	_, _, err := svc.Register(t.Context(), input)
	require.NoError(t, err)

	_, _, err = svc.Register(t.Context(), input)

	var rejected *service.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "username already taken", rejected.Reason)
}

func TestLogin(t *testing.T) {
	svc := service.NewAccount(newFakeUserRepo(), nil, discardLogger())

	_, _, err := svc.Register(t.Context(), service.RegisterInput{
		Username: "mahdi",
		Email:    "mahdi@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(t.Context(), "mahdi", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "mahdi", user.Username)
	assert.Len(t, token, 40)

	_, _, err = svc.Login(t.Context(), "mahdi", "wrong-pass")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// an unknown user fails the same way as a bad password
	_, _, err = svc.Login(t.Context(), "nobody", "s3cret-pass")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}
