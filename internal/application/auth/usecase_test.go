package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/logistock/logistock-api/internal/application/auth"
	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
	"github.com/logistock/logistock-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T, status string) *auth.AuthUseCase {
	t.Helper()
	s := memory.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("12345678901"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.Repos().Users.Create(context.Background(), &entity.User{
		ID: "u-1", Email: "ana@example.com", PasswordHash: string(hash), Name: "Ana",
		Role: entity.RoleTechnician, Status: status, TechnicianID: "tech-1",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	return auth.NewAuthUseCase(s.Repos().Users, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "logistock"})
}

func TestLogin_TokenCarriesTechnician(t *testing.T) {
	uc := newAuth(t, entity.UserActive)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " ANA@example.com", Password: "12345678901"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.User.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "tech-1", claims.TechnicianID)
	assert.Equal(t, entity.RoleTechnician, claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	uc := newAuth(t, entity.UserActive)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	inactive := newAuth(t, entity.UserInactive)
	_, err = inactive.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "12345678901"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
