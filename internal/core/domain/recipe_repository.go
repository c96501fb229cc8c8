package domain

import "context"

// RecipeInput is the full content of a recipe aggregate as written by its owner.
// Instruction step numbers are the 1-based positions in Instructions.
type RecipeInput struct {
	Title        string
	Description  string
	ImageURL     string
	Category     string
	Ingredients  []string
	Instructions []string
}

// RecipeRepository defines the data-access contract for recipe aggregates
// (one recipe row plus its ingredient and instruction rows).
//
// Create, Update and Delete are atomic: either the whole aggregate change is
// committed or nothing is.
type RecipeRepository interface {
	// List returns every recipe with ingredient names in insertion order and
	// instructions formatted as "<step>: <text>" in step order.
	List(ctx context.Context) ([]RecipeWithChildren, error)

	// Search matches titles containing title (case-insensitive) or, when id is
	// non-nil, the recipe with that exact ID.
	Search(ctx context.Context, title string, id *int64) ([]RecipeWithChildren, error)

	// ListByCategory returns bare recipe rows with exactly the given category.
	ListByCategory(ctx context.Context, category string) ([]Recipe, error)

	// ListByOwner returns bare recipe rows owned by userID, ordered by ID.
	ListByOwner(ctx context.Context, userID int64) ([]Recipe, error)

	// IngredientNames returns the ingredient names of a recipe in insertion order.
	IngredientNames(ctx context.Context, recipeID int64) ([]string, error)

	// InstructionTexts returns the instruction texts of a recipe in step order.
	InstructionTexts(ctx context.Context, recipeID int64) ([]string, error)

	// Create inserts the recipe and all of its children and returns the new recipe ID.
	// Child failures are reported wrapping ErrAggregateWrite.
	Create(ctx context.Context, ownerID int64, in RecipeInput) (int64, error)

	// Update replaces the recipe fields and its entire child set.
	// Returns ErrNotFound or ErrNotOwner before touching any row.
	Update(ctx context.Context, id, ownerID int64, in RecipeInput) error

	// Delete removes the children and then the recipe.
	// Returns ErrNotFound or ErrNotOwner before touching any row.
	Delete(ctx context.Context, id, ownerID int64) error
}
