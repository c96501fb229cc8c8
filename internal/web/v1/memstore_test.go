package v1

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/duynhne/recipe-service/internal/core/domain"
)

// memStore is an in-memory stand-in for the pgx repositories with the same
// ownership and ordering rules.
type memStore struct {
	mu       sync.Mutex
	users    []domain.UserRow
	recipes  map[int64]*memRecipe
	nextUser int64
	nextRec  int64

	// failChildren makes recipe writes fail as a rolled-back child insert.
	failChildren bool
}

type memRecipe struct {
	domain.Recipe
	ingredients  []string
	instructions []string
}

func newMemStore() *memStore {
	return &memStore{recipes: make(map[int64]*memRecipe)}
}

type memUsers struct{ s *memStore }

type memRecipes struct{ s *memStore }

func (m memUsers) Create(_ context.Context, user domain.NewUser) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return 0, fmt.Errorf("email %q: %w", user.Email, domain.ErrDuplicate)
		}
	}
	m.s.nextUser++
	m.s.users = append(m.s.users, domain.UserRow{
		ID:           m.s.nextUser,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Gender:       user.Gender,
		PasswordHash: user.PasswordHash,
		IsAPIUser:    user.IsAPIUser,
		CreatedAt:    time.Now(),
	})
	return m.s.nextUser, nil
}

func (m memUsers) find(match func(domain.UserRow) bool) *domain.UserRow {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	return m.find(func(u domain.UserRow) bool { return u.Email == email }), nil
}

func (m memUsers) GetByID(_ context.Context, id int64) (*domain.UserRow, error) {
	return m.find(func(u domain.UserRow) bool { return u.ID == id }), nil
}

func (m memUsers) List(context.Context) ([]domain.UserRow, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]domain.UserRow(nil), m.s.users...), nil
}

func (m memUsers) ListByGender(_ context.Context, gender string) ([]domain.UserRow, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.UserRow
	for _, u := range m.s.users {
		if u.Gender == gender {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m memRecipes) sorted(match func(*memRecipe) bool) []*memRecipe {
	var out []*memRecipe
	for _, r := range m.s.recipes {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func withChildren(r *memRecipe) domain.RecipeWithChildren {
	instructions := make([]string, len(r.instructions))
	for i, text := range r.instructions {
		instructions[i] = strconv.Itoa(i+1) + ": " + text
	}
	return domain.RecipeWithChildren{
		Recipe:       r.Recipe,
		Ingredients:  append([]string{}, r.ingredients...),
		Instructions: instructions,
	}
}

func (m memRecipes) List(context.Context) ([]domain.RecipeWithChildren, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.RecipeWithChildren
	for _, r := range m.sorted(func(*memRecipe) bool { return true }) {
		out = append(out, withChildren(r))
	}
	return out, nil
}

func (m memRecipes) Search(_ context.Context, title string, id *int64) ([]domain.RecipeWithChildren, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	needle := strings.ToLower(title)
	var out []domain.RecipeWithChildren
	for _, r := range m.sorted(func(r *memRecipe) bool {
		return strings.Contains(strings.ToLower(r.Title), needle) || (id != nil && *id == r.ID)
	}) {
		out = append(out, withChildren(r))
	}
	return out, nil
}

func (m memRecipes) ListByCategory(_ context.Context, category string) ([]domain.Recipe, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Recipe
	for _, r := range m.sorted(func(r *memRecipe) bool { return r.Category == category }) {
		out = append(out, r.Recipe)
	}
	return out, nil
}

func (m memRecipes) ListByOwner(_ context.Context, userID int64) ([]domain.Recipe, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Recipe
	for _, r := range m.sorted(func(r *memRecipe) bool { return r.UserID == userID }) {
		out = append(out, r.Recipe)
	}
	return out, nil
}

func (m memRecipes) IngredientNames(_ context.Context, recipeID int64) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r, ok := m.s.recipes[recipeID]; ok {
		return append([]string{}, r.ingredients...), nil
	}
	return []string{}, nil
}

func (m memRecipes) InstructionTexts(_ context.Context, recipeID int64) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r, ok := m.s.recipes[recipeID]; ok {
		return append([]string{}, r.instructions...), nil
	}
	return []string{}, nil
}

func (m memRecipes) Create(_ context.Context, ownerID int64, in domain.RecipeInput) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failChildren {
		return 0, fmt.Errorf("insert ingredients: %w", domain.ErrAggregateWrite)
	}
	m.s.nextRec++
	m.s.recipes[m.s.nextRec] = &memRecipe{
		Recipe: domain.Recipe{
			ID:          m.s.nextRec,
			UserID:      ownerID,
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Category:    in.Category,
		},
		ingredients:  append([]string{}, in.Ingredients...),
		instructions: append([]string{}, in.Instructions...),
	}
	return m.s.nextRec, nil
}

func (m memRecipes) owned(id, ownerID int64) (*memRecipe, error) {
	r, ok := m.s.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
	}
	if r.UserID != ownerID {
		return nil, fmt.Errorf("recipe %d: %w", id, domain.ErrNotOwner)
	}
	return r, nil
}

func (m memRecipes) Update(_ context.Context, id, ownerID int64, in domain.RecipeInput) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, err := m.owned(id, ownerID)
	if err != nil {
		return err
	}
	if m.s.failChildren {
		return fmt.Errorf("insert ingredients: %w", domain.ErrAggregateWrite)
	}
	r.Title, r.Description, r.ImageURL, r.Category = in.Title, in.Description, in.ImageURL, in.Category
	r.ingredients = append([]string{}, in.Ingredients...)
	r.instructions = append([]string{}, in.Instructions...)
	return nil
}

func (m memRecipes) Delete(_ context.Context, id, ownerID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, err := m.owned(id, ownerID); err != nil {
		return err
	}
	delete(m.s.recipes, id)
	return nil
}
