package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/recipe-service/internal/core/domain"
)

// recipeWithChildrenSelect aggregates children with correlated subqueries so
// that ingredients and instructions do not multiply each other as a double
// join would.
const recipeWithChildrenSelect = `
	SELECT r.id, r.user_id, r.title, r.description, r.image_url, r.category,
	       COALESCE((SELECT array_agg(i.name ORDER BY i.id)
	                 FROM ingredients i
	                 WHERE i.recipe_id = r.id), '{}') AS ingredients,
	       COALESCE((SELECT array_agg(s.step_number::text || ': ' || s.text ORDER BY s.step_number)
	                 FROM instructions s
	                 WHERE s.recipe_id = r.id), '{}') AS instructions
	FROM recipes r
`

const recipeColumns = `id, user_id, title, description, image_url, category`

const (
	insertIngredientSQL  = `INSERT INTO ingredients (recipe_id, name) VALUES ($1, $2)`
	insertInstructionSQL = `INSERT INTO instructions (recipe_id, step_number, text) VALUES ($1, $2, $3)`
	deleteIngredientsSQL = `DELETE FROM ingredients WHERE recipe_id = $1`
	deleteInstructionSQL = `DELETE FROM instructions WHERE recipe_id = $1`
)

// PgxRecipeRepository implements domain.RecipeRepository using pgxpool.
type PgxRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository creates a new PgxRecipeRepository.
func NewRecipeRepository(pool *pgxpool.Pool) *PgxRecipeRepository {
	return &PgxRecipeRepository{pool: pool}
}

// List returns every recipe with its aggregated children, ordered by ID.
func (r *PgxRecipeRepository) List(ctx context.Context) ([]domain.RecipeWithChildren, error) {
	rows, err := r.pool.Query(ctx, recipeWithChildrenSelect+` ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecipeWithChildren)
}

// Search matches a case-insensitive title substring or an exact ID.
// A nil id never matches since r.id = NULL is never true.
func (r *PgxRecipeRepository) Search(ctx context.Context, title string, id *int64) ([]domain.RecipeWithChildren, error) {
	query := recipeWithChildrenSelect + ` WHERE r.title ILIKE $1 OR r.id = $2 ORDER BY r.id`

	rows, err := r.pool.Query(ctx, query, "%"+escapeLike(title)+"%", id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecipeWithChildren)
}

// ListByCategory returns bare recipe rows with exactly the given category.
func (r *PgxRecipeRepository) ListByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecipe)
}

// ListByOwner returns bare recipe rows owned by userID, ordered by ID.
func (r *PgxRecipeRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecipe)
}

// IngredientNames returns the ingredient names of a recipe in insertion order.
func (r *PgxRecipeRepository) IngredientNames(ctx context.Context, recipeID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM ingredients WHERE recipe_id = $1 ORDER BY id`, recipeID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// InstructionTexts returns the instruction texts of a recipe in step order.
func (r *PgxRecipeRepository) InstructionTexts(ctx context.Context, recipeID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT text FROM instructions WHERE recipe_id = $1 ORDER BY step_number`, recipeID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Create inserts the recipe and its children in one transaction.
func (r *PgxRecipeRepository) Create(ctx context.Context, ownerID int64, in domain.RecipeInput) (int64, error) {
	query := `
		INSERT INTO recipes (user_id, title, description, image_url, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var recipeID int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			ownerID, in.Title, in.Description, in.ImageURL, in.Category,
		).Scan(&recipeID); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return insertChildren(ctx, tx, recipeID, in)
	})
	if err != nil {
		return 0, err
	}

	return recipeID, nil
}

// Update replaces the recipe fields and its child set in one transaction.
func (r *PgxRecipeRepository) Update(ctx context.Context, id, ownerID int64, in domain.RecipeInput) error {
	query := `
		UPDATE recipes
		SET title = $1, description = $2, image_url = $3, category = $4
		WHERE id = $5 AND user_id = $6
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := findOwnedOrFail(ctx, tx, id, ownerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query,
			in.Title, in.Description, in.ImageURL, in.Category, id, ownerID,
		); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		return insertChildren(ctx, tx, id, in)
	})
}

// Delete removes ingredients, then instructions, then the recipe, in one transaction.
func (r *PgxRecipeRepository) Delete(ctx context.Context, id, ownerID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := findOwnedOrFail(ctx, tx, id, ownerID); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, ownerID); err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
}

// findOwnedOrFail locks the recipe row for the rest of the transaction and
// checks that ownerID owns it. Every mutating operation goes through here
// before touching any row.
func findOwnedOrFail(ctx context.Context, tx pgx.Tx, id, ownerID int64) error {
	var owner int64
	err := tx.QueryRow(ctx, `SELECT user_id FROM recipes WHERE id = $1 FOR UPDATE`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("lock recipe %d: %w", id, err)
	}
	if owner != ownerID {
		return fmt.Errorf("recipe %d: %w", id, domain.ErrNotOwner)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx pgx.Tx, recipeID int64) error {
	if _, err := tx.Exec(ctx, deleteIngredientsSQL, recipeID); err != nil {
		return fmt.Errorf("delete ingredients: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteInstructionSQL, recipeID); err != nil {
		return fmt.Errorf("delete instructions: %w", err)
	}
	return nil
}

// insertChildren pipelines every child insert in a single batch. Step numbers
// come from the input position, so they do not depend on execution order.
func insertChildren(ctx context.Context, tx pgx.Tx, recipeID int64, in domain.RecipeInput) error {
	batch := &pgx.Batch{}
	for _, name := range in.Ingredients {
		batch.Queue(insertIngredientSQL, recipeID, name)
	}
	for i, text := range in.Instructions {
		batch.Queue(insertInstructionSQL, recipeID, i+1, text)
	}
	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("%w: %w", domain.ErrAggregateWrite, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAggregateWrite, err)
	}
	return nil
}

func scanRecipe(row pgx.CollectableRow) (domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.ImageURL, &rec.Category)
	return rec, err
}

func scanRecipeWithChildren(row pgx.CollectableRow) (domain.RecipeWithChildren, error) {
	var rec domain.RecipeWithChildren
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.ImageURL, &rec.Category,
		&rec.Ingredients, &rec.Instructions,
	)
	if rec.Ingredients == nil {
		rec.Ingredients = []string{}
	}
	if rec.Instructions == nil {
		rec.Instructions = []string{}
	}
	return rec, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
