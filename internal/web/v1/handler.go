package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/recipe-service/internal/core/domain"
	logicv1 "github.com/duynhne/recipe-service/internal/logic/v1"
	"github.com/duynhne/recipe-service/middleware"
)

// Handler groups HTTP handlers for the recipe API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth    *logicv1.AuthService
	recipes *logicv1.RecipeService
	users   *logicv1.UserService
	tokens  middleware.TokenVerifier
}

// NewHandler creates a new Handler with the given services.
func NewHandler(
	auth *logicv1.AuthService,
	recipes *logicv1.RecipeService,
	users *logicv1.UserService,
	tokens middleware.TokenVerifier,
) *Handler {
	return &Handler{
		auth:    auth,
		recipes: recipes,
		users:   users,
		tokens:  tokens,
	}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// authLimits run in front of the signup and signin routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authLimits ...gin.HandlerFunc) {
	requireToken := middleware.RequireToken(h.tokens)

	auth := rg.Group("/auth", authLimits...)
	auth.POST("/signup", h.Signup)
	auth.POST("/signin", h.Signin)

	recipes := rg.Group("/recipes")
	recipes.GET("", h.ListRecipes)
	recipes.GET("/search", h.SearchRecipes)
	recipes.GET("/recipes/category/:category", h.ListRecipesByCategory)
	recipes.POST("", requireToken, h.CreateRecipe)
	recipes.PUT("/:id", requireToken, h.UpdateRecipe)
	recipes.DELETE("/:id", requireToken, h.DeleteRecipe)

	user := rg.Group("/user")
	user.GET("/profile", requireToken, h.Profile)

	apiUsers := user.Group("/users", middleware.RequireAPIUser(h.tokens, h.users))
	apiUsers.GET("", h.ListUsers)
	apiUsers.GET("/:identifier", h.GetUser)
	apiUsers.GET("/gender/:gender", h.ListUsersByGender)
}

func startRequestSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid signup request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	if err := h.auth.Signup(ctx, req); err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrUserExists):
			logger.Warn().Err(err).Msg("Signup rejected")
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered."})
		case errors.Is(err, logicv1.ErrPasswordTooLong):
			logger.Warn().Err(err).Msg("Signup rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at most 72 bytes."})
		default:
			logger.Error().Err(err).Msg("Signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info().Str("email", req.Email).Msg("Signup successful")
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully."})
}

// Signin handles POST /api/auth/signin.
func (h *Handler) Signin(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	var req domain.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid signin request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	token, err := h.auth.Signin(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			logger.Warn().Err(err).Msg("Signin rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		default:
			logger.Error().Err(err).Msg("Signin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, domain.SigninResponse{Token: token})
}

// ListRecipes handles GET /api/recipes.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	recipes, err := h.recipes.List(ctx)
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List recipes failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// SearchRecipes handles GET /api/recipes/search?query=.
func (h *Handler) SearchRecipes(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	recipes, err := h.recipes.Search(ctx, c.Query("query"))
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("Search recipes failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// ListRecipesByCategory handles GET /api/recipes/recipes/category/:category.
func (h *Handler) ListRecipesByCategory(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	recipes, err := h.recipes.ListByCategory(ctx, c.Param("category"))
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List recipes by category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// CreateRecipe handles POST /api/recipes.
func (h *Handler) CreateRecipe(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)
	userID, _ := middleware.UserID(c)

	var req domain.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid recipe request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	recipeID, err := h.recipes.Create(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Int64("user_id", userID).Msg("Create recipe failed")
		writeRecipeError(c, err, "Failed to create recipe details.")
		return
	}

	logger.Info().Int64("recipe_id", recipeID).Int64("user_id", userID).Msg("Recipe created")
	c.JSON(http.StatusCreated, gin.H{"message": "Recipe created successfully.", "RecipeID": recipeID})
}

// UpdateRecipe handles PUT /api/recipes/:id.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)
	userID, _ := middleware.UserID(c)

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	var req domain.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid recipe request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	if err := h.recipes.Update(ctx, recipeID, userID, req); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Int64("recipe_id", recipeID).Int64("user_id", userID).Msg("Update recipe failed")
		writeRecipeError(c, err, "Failed to update recipe details.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteRecipe handles DELETE /api/recipes/:id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)
	userID, _ := middleware.UserID(c)

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(ctx, recipeID, userID); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Int64("recipe_id", recipeID).Int64("user_id", userID).Msg("Delete recipe failed")
		writeRecipeError(c, err, "Failed to delete recipe details.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully."})
}

// Profile handles GET /api/user/profile.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, _ := middleware.UserID(c)

	profile, err := h.users.Profile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Int64("user_id", userID).Msg("Profile failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListUsers handles GET /api/user/users.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/user/users/:identifier, where identifier is a
// numeric user id or an email.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	user, err := h.users.GetUser(ctx, c.Param("identifier"))
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		default:
			pkgzerolog.FromContext(ctx).Error().Err(err).Msg("Get user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsersByGender handles GET /api/user/users/gender/:gender.
func (h *Handler) ListUsersByGender(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	users, err := h.users.ListUsersByGender(ctx, c.Param("gender"))
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List users by gender failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func recipeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe id."})
		return 0, false
	}
	return id, true
}

// writeRecipeError maps recipe workflow errors to a status; detailFailure is
// the message reported when a child write rolled the change back.
func writeRecipeError(c *gin.Context, err error, detailFailure string) {
	switch {
	case errors.Is(err, logicv1.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found."})
	case errors.Is(err, logicv1.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied."})
	case errors.Is(err, logicv1.ErrRecipeDetailWrite):
		c.JSON(http.StatusInternalServerError, gin.H{"error": detailFailure})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
