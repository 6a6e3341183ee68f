package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xenocrm/crm-backend/internal/config"
	"github.com/xenocrm/crm-backend/internal/models"
)

func newAuthService() (*AuthService, *config.Config) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(&fakeAdminUserRepo{}, cfg), cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, cfg := newAuthService()

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.Empty(t, user.Password, "hash must not leak")

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.Password)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Admin", Email: "admin@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Other", Email: "admin@example.com", Password: "another-pass",
	})
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Admin", Email: "admin@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "admin@example.com", Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "nobody@example.com", Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
