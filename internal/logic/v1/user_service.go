package v1

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/duynhne/recipe-service/internal/core/domain"
	"github.com/duynhne/recipe-service/middleware"
)

// profileFetchLimit bounds the per-recipe child queries running at once for a
// single profile request.
const profileFetchLimit = 8

// UserService implements profile and user listing workflows.
type UserService struct {
	users   domain.UserRepository
	recipes domain.RecipeRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, recipes domain.RecipeRepository) *UserService {
	return &UserService{
		users:   users,
		recipes: recipes,
	}
}

// Profile returns the caller's details and every recipe they own with its
// ingredients and instruction texts. Children of different recipes are fetched
// concurrently; the result keeps recipe id order.
func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "user.profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	// Lookup user by id via repository
	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", userID, err)
	}
	if row == nil {
		return nil, fmt.Errorf("profile of user %d: %w", userID, ErrUserNotFound)
	}

	// List owned recipes
	owned, err := s.recipes.ListByOwner(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list recipes of user %d: %w", userID, err)
	}

	// Fetch children per recipe, writing each result into its own slot
	recipes := make([]domain.ProfileRecipe, len(owned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchLimit)
	for i, rec := range owned {
		g.Go(func() error {
			ingredients, err := s.recipes.IngredientNames(gctx, rec.ID)
			if err != nil {
				return fmt.Errorf("ingredients of recipe %d: %w", rec.ID, err)
			}
			instructions, err := s.recipes.InstructionTexts(gctx, rec.ID)
			if err != nil {
				return fmt.Errorf("instructions of recipe %d: %w", rec.ID, err)
			}
			recipes[i] = domain.ProfileRecipe{
				ID:           rec.ID,
				Title:        rec.Title,
				Description:  rec.Description,
				ImageURL:     rec.ImageURL,
				Category:     rec.Category,
				Ingredients:  nonNil(ingredients),
				Instructions: nonNil(instructions),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("profile of user %d: %w", userID, err)
	}

	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return &domain.Profile{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Recipes:   recipes,
	}, nil
}

// ListUsers returns every user without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	rows, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return toUsers(rows), nil
}

// GetUser looks a user up by numeric id or, failing that, by email.
func (s *UserService) GetUser(ctx context.Context, identifier string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("identifier", identifier),
	))
	defer span.End()

	var (
		row *domain.UserRow
		err error
	)
	// Numeric identifiers are ids, anything else is an email
	if id, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		row, err = s.users.GetByID(ctx, id)
	} else {
		row, err = s.users.GetByEmail(ctx, identifier)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", identifier, err)
	}
	if row == nil {
		return nil, fmt.Errorf("get user %q: %w", identifier, ErrUserNotFound)
	}

	user := row.ToUser()
	return &user, nil
}

// ListUsersByGender returns the users with exactly the given gender.
func (s *UserService) ListUsersByGender(ctx context.Context, gender string) ([]domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.list_by_gender", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("gender", gender),
	))
	defer span.End()

	rows, err := s.users.ListByGender(ctx, gender)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users by gender %q: %w", gender, err)
	}
	return toUsers(rows), nil
}

// IsAPIUser reports whether userID exists and carries the API-user flag.
// An unknown user is (false, nil).
func (s *UserService) IsAPIUser(ctx context.Context, userID int64) (bool, error) {
	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("query user %d: %w", userID, err)
	}
	return row != nil && row.IsAPIUser, nil
}

func toUsers(rows []domain.UserRow) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.ToUser())
	}
	return users
}
