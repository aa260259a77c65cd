package auth_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/domain/user"
	"github.com/mahfuzr/hisab/pkg/dto"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	"github.com/mahfuzr/hisab/pkg/service/servicetest"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func newService(uow *servicetest.FakeUoW) *authsvc.Service {
	cfg := config.Jwt{Secret: "test-secret", Expiry: time.Hour}
	return authsvc.New(uow, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		u, err := svc.Register(ctx, dto.UserCreate{
			Email: "mahfuz@example.com", Name: "Mahfuz", Password: "secret123",
		})
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.NotEqual(t, "secret123", u.PasswordHash)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		_, err := svc.Register(ctx, dto.UserCreate{
			Email: "mahfuz@example.com", Name: "Mahfuz", Password: "secret123",
		})
		require.NoError(t, err)

		_, err = svc.Register(ctx, dto.UserCreate{
			Email: "mahfuz@example.com", Name: "Other", Password: "different",
		})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		_, err := svc.Register(ctx, dto.UserCreate{
			Email: "not an email", Name: "X", Password: "secret123",
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues a token carrying the user id", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		u, err := svc.Register(ctx, dto.UserCreate{
			Email: "mahfuz@example.com", Name: "Mahfuz", Password: "secret123",
		})
		require.NoError(t, err)

		signed, err := svc.Login(ctx, "mahfuz@example.com", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)

		id, err := svc.CurrentUserID(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, id)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		_, err := svc.Register(ctx, dto.UserCreate{
			Email: "mahfuz@example.com", Name: "Mahfuz", Password: "secret123",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "mahfuz@example.com", "wrong")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email indistinguishable from wrong password", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}
