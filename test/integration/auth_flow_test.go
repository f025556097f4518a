package integration

import (
	"context"
	"errors"
	"testing"

	"studytrack-be/internal/config"
	"studytrack-be/internal/dto"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopMailer struct{}

func (nopMailer) SendWelcome(string, string) error { return nil }

func newAuthService(t *testing.T) service.IAuthService {
	uowFactory := requireDB(t)
	cfg := config.AuthConfig{
		JwtSecret:        "integration-test-secret",
		AccessTokenHours: 1,
		RefreshTokenDays: 7,
	}
	return service.NewAuthService(uowFactory, nopMailer{}, cfg, nopLogger{})
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	email := "auth-flow-" + uuid.New().String() + "@example.com"
	password := "integration-pass-123"

	// Register
	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:           email,
		FullName:        "Auth Flow User",
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	assert.Equal(t, email, reg.Email)

	// Duplicate email is rejected.
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email:           email,
		FullName:        "Auth Flow User",
		Password:        password,
		ConfirmPassword: password,
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	// Login
	login, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "127.0.0.1", "integration-test")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	// Wrong password fails with the same generic auth error as unknown email.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "wrong-password"}, "127.0.0.1", "integration-test")
	assert.True(t, errors.Is(err, apperrors.ErrAuth))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody-" + email, Password: password}, "127.0.0.1", "integration-test")
	assert.True(t, errors.Is(err, apperrors.ErrAuth))

	// Logout revokes the refresh token; doing it twice is harmless.
	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, login.RefreshToken))
}

func TestAuthRegisterPasswordMismatch(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:           "mismatch-" + uuid.New().String() + "@example.com",
		FullName:        "Mismatch User",
		Password:        "password-one",
		ConfirmPassword: "password-two",
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
