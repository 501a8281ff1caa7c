package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/usecase"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
)

func TestItemUseCase_CreateRejectsDuplicateCode(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewItemUseCase(s.Repos().Items)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateItemRequest{Code: "CB-01", Description: "Cabo drop", UnitValue: decimal.RequireFromString("2.5")})
	require.NoError(t, err)
	assert.Equal(t, "un", out.Unit)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "cb-01", Description: "Outro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByCode(ctx, "CB-01")
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestItemUseCase_UpdateAndDelete(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewItemUseCase(s.Repos().Items)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateItemRequest{Code: "A", Description: "Item A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "B", Description: "Item B"})
	require.NoError(t, err)

	taken := "B"
	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Code: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	equipment := true
	upd, err := uc.Update(ctx, a.ID, dto.UpdateItemRequest{IsEquipment: &equipment})
	require.NoError(t, err)
	assert.True(t, upd.IsEquipment)

	list, err := uc.List(ctx, "", true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_ImportCreatesAndUpdates(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewItemUseCase(s.Repos().Items)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateItemRequest{Code: "CB-01", Description: "Cabo"})
	require.NoError(t, err)

	res, err := uc.Import(ctx, []dto.ItemImportRow{
		{Line: 2, Code: "CB-01", Description: "Cabo drop 1F", Unit: "m", UnitValue: decimal.RequireFromString("1234.56")},
		{Line: 3, Code: "CN-02", Description: "Conector"},
		{Line: 4, Code: "", Description: "Sem código"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 4, res.Issues[0].Position)

	got, err := uc.GetByCode(ctx, "CB-01")
	require.NoError(t, err)
	assert.Equal(t, "Cabo drop 1F", got.Description)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(got.UnitValue))
}

func TestTechnicianUseCase_CreateAlsoCreatesUser(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewTechnicianUseCase(s)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.TechnicianRequest{
		Name: "Ana Souza", Registration: "M-10", CPF: "123.456.789-01", Email: "Ana@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TechnicianActive, out.Status)
	require.NotEmpty(t, out.UserID)

	user, err := s.Repos().Users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.RoleTechnician, user.Role)
	assert.Equal(t, out.ID, user.TechnicianID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("12345678901")))

	_, err = uc.Create(ctx, dto.TechnicianRequest{Name: "Outra", Registration: "M-10"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTechnicianUseCase_SetStatus(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewTechnicianUseCase(s)
	ctx := context.Background()
	out, err := uc.Create(ctx, dto.TechnicianRequest{Name: "Beto", Registration: "M-2"})
	require.NoError(t, err)
	assert.Empty(t, out.UserID)

	upd, err := uc.SetStatus(ctx, out.ID, dto.TechnicianStatusRequest{Status: entity.TechnicianInactive})
	require.NoError(t, err)
	assert.Equal(t, entity.TechnicianInactive, upd.Status)

	active, err := uc.List(ctx, entity.TechnicianActive, "")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUserUseCase_Create(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewUserUseCase(s.Repos().Users)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateUserRequest{Email: "t@x.com", Password: "secreta", Name: "T", Role: entity.RoleTechnician})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tecnico sin técnico vinculado")

	out, err := uc.Create(ctx, dto.CreateUserRequest{Email: "Admin@X.com", Password: "secreta", Name: "Admin", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", out.Email)
	assert.Equal(t, entity.UserActive, out.Status)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "admin@x.com", Password: "secreta", Name: "Dup", Role: entity.RoleStock})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
