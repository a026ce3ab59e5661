package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotswap/slotswap/internal/domain/user"
	"github.com/slotswap/slotswap/internal/infrastructure/memstore"
)

func newAuthService(ttl time.Duration) *Service {
	return NewService(memstore.NewUserRepository(), []byte("test-secret"), ttl, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	res, err := svc.Register(ctx, "  Alice@Example.com ", "Alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "Alice", res.User.DisplayName)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, "hunter2hunter2", res.User.PasswordHash)

	login, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, login.User.UserID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "Alice", "hunter2hunter2")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "", "hunter2hunter2")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "Alice", "short")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "Alice", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "ALICE@example.com", "Alice Again", "hunter2hunter2")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService(time.Hour)
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2hunter2")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, u.UserID)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is refused.
	other := NewService(memstore.NewUserRepository(), []byte("other-secret"), time.Hour, zerolog.Nop())
	foreign, err := other.Register(ctx, "bob@example.com", "Bob", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, foreign.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc := newAuthService(-time.Minute)
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
