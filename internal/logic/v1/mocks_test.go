package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/duynhne/recipe-service/internal/core/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.NewUser) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	args := m.Called(ctx, email)
	row, _ := args.Get(0).(*domain.UserRow)
	return row, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.UserRow, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*domain.UserRow)
	return row, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.UserRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.UserRow)
	return rows, args.Error(1)
}

func (m *mockUserRepo) ListByGender(ctx context.Context, gender string) ([]domain.UserRow, error) {
	args := m.Called(ctx, gender)
	rows, _ := args.Get(0).([]domain.UserRow)
	return rows, args.Error(1)
}

type mockRecipeRepo struct {
	mock.Mock
}

func (m *mockRecipeRepo) List(ctx context.Context) ([]domain.RecipeWithChildren, error) {
	args := m.Called(ctx)
	recipes, _ := args.Get(0).([]domain.RecipeWithChildren)
	return recipes, args.Error(1)
}

func (m *mockRecipeRepo) Search(ctx context.Context, title string, id *int64) ([]domain.RecipeWithChildren, error) {
	args := m.Called(ctx, title, id)
	recipes, _ := args.Get(0).([]domain.RecipeWithChildren)
	return recipes, args.Error(1)
}

func (m *mockRecipeRepo) ListByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	args := m.Called(ctx, category)
	recipes, _ := args.Get(0).([]domain.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRecipeRepo) ListByOwner(ctx context.Context, userID int64) ([]domain.Recipe, error) {
	args := m.Called(ctx, userID)
	recipes, _ := args.Get(0).([]domain.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRecipeRepo) IngredientNames(ctx context.Context, recipeID int64) ([]string, error) {
	args := m.Called(ctx, recipeID)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockRecipeRepo) InstructionTexts(ctx context.Context, recipeID int64) ([]string, error) {
	args := m.Called(ctx, recipeID)
	texts, _ := args.Get(0).([]string)
	return texts, args.Error(1)
}

func (m *mockRecipeRepo) Create(ctx context.Context, ownerID int64, in domain.RecipeInput) (int64, error) {
	args := m.Called(ctx, ownerID, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecipeRepo) Update(ctx context.Context, id, ownerID int64, in domain.RecipeInput) error {
	return m.Called(ctx, id, ownerID, in).Error(0)
}

func (m *mockRecipeRepo) Delete(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(int64) (string, error) {
	return s.token, s.err
}
