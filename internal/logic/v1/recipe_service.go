package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/recipe-service/internal/core/domain"
	"github.com/duynhne/recipe-service/middleware"
)

// RecipeService implements the recipe aggregate workflows.
type RecipeService struct {
	recipes domain.RecipeRepository
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes domain.RecipeRepository) *RecipeService {
	return &RecipeService{recipes: recipes}
}

// List returns every recipe with ingredients and numbered instructions.
func (s *RecipeService) List(ctx context.Context) ([]domain.RecipeWithChildren, error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return nonNilRecipes(recipes), nil
}

// Search matches titles containing query, case-insensitively, or the recipe
// whose id equals query when query is an integer.
func (s *RecipeService) Search(ctx context.Context, query string) ([]domain.RecipeWithChildren, error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.search", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("query", query),
	))
	defer span.End()

	// Numeric queries also match by id
	var id *int64
	if n, err := strconv.ParseInt(strings.TrimSpace(query), 10, 64); err == nil {
		id = &n
	}

	recipes, err := s.recipes.Search(ctx, query, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search recipes %q: %w", query, err)
	}

	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return nonNilRecipes(recipes), nil
}

// ListByCategory returns bare recipes with exactly the given category.
func (s *RecipeService) ListByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.list_by_category", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("category", category),
	))
	defer span.End()

	recipes, err := s.recipes.ListByCategory(ctx, category)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list recipes in category %q: %w", category, err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// Create stores a recipe owned by ownerID and returns its id.
func (s *RecipeService) Create(ctx context.Context, ownerID int64, req domain.RecipeRequest) (recipeID int64, err error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", ownerID),
		attribute.Int("ingredients.count", len(req.Ingredients)),
		attribute.Int("instructions.count", len(req.Instructions)),
	))
	defer span.End()
	defer func() { observeRecipeWrite("create", err) }()

	// Insert recipe and children in one transaction via repository
	recipeID, err = s.recipes.Create(ctx, ownerID, req.Input())
	if err != nil {
		span.RecordError(err)
		return 0, translateRecipeErr(fmt.Sprintf("create recipe for user %d", ownerID), err)
	}

	span.SetAttributes(attribute.Int64("recipe.id", recipeID))
	span.AddEvent("recipe.created")
	return recipeID, nil
}

// Update replaces the fields and the child set of a recipe owned by ownerID.
func (s *RecipeService) Update(ctx context.Context, id, ownerID int64, req domain.RecipeRequest) (err error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("recipe.id", id),
		attribute.Int64("user.id", ownerID),
	))
	defer span.End()
	defer func() { observeRecipeWrite("update", err) }()

	// Ownership check and child replacement happen inside the repository transaction
	if err := s.recipes.Update(ctx, id, ownerID, req.Input()); err != nil {
		span.RecordError(err)
		return translateRecipeErr(fmt.Sprintf("update recipe %d", id), err)
	}

	span.AddEvent("recipe.updated")
	return nil
}

// Delete removes a recipe owned by ownerID together with its children.
func (s *RecipeService) Delete(ctx context.Context, id, ownerID int64) (err error) {
	ctx, span := middleware.StartSpan(ctx, "recipe.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("recipe.id", id),
		attribute.Int64("user.id", ownerID),
	))
	defer span.End()
	defer func() { observeRecipeWrite("delete", err) }()

	// Remove children first, then the recipe
	if err := s.recipes.Delete(ctx, id, ownerID); err != nil {
		span.RecordError(err)
		return translateRecipeErr(fmt.Sprintf("delete recipe %d", id), err)
	}

	span.AddEvent("recipe.deleted")
	return nil
}

func translateRecipeErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrRecipeNotFound)
	case errors.Is(err, domain.ErrNotOwner):
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	case errors.Is(err, domain.ErrAggregateWrite):
		return fmt.Errorf("%s: %w: %w", op, ErrRecipeDetailWrite, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func nonNilRecipes(recipes []domain.RecipeWithChildren) []domain.RecipeWithChildren {
	if recipes == nil {
		return []domain.RecipeWithChildren{}
	}
	for i := range recipes {
		recipes[i].Ingredients = nonNil(recipes[i].Ingredients)
		recipes[i].Instructions = nonNil(recipes[i].Instructions)
	}
	return recipes
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
