package domain

import "time"

// JSON field names mirror the public API consumed by the existing web client.

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	Password  string `json:"password" binding:"required"`
	IsAPIUser bool   `json:"isApiUser"`
}

// SigninRequest is the body of POST /api/auth/signin.
type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SigninResponse struct {
	Token string `json:"token"`
}

// RecipeRequest is the body of POST /api/recipes and PUT /api/recipes/:id.
// Ingredients and Instructions must be arrays; empty arrays are valid.
type RecipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	ImageURL     string   `json:"imageUrl" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
}

// Input converts the request body into repository input.
func (r RecipeRequest) Input() RecipeInput {
	return RecipeInput{
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Category:     r.Category,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

// User is the public view of an account.
type User struct {
	ID        int64     `json:"UserID"`
	FirstName string    `json:"FirstName"`
	LastName  string    `json:"LastName"`
	Email     string    `json:"Email"`
	Gender    string    `json:"Gender"`
	IsAPIUser bool      `json:"IsApiUser"`
	CreatedAt time.Time `json:"Created_at"`
}

// Recipe is a bare recipe row.
type Recipe struct {
	ID          int64  `json:"RecipeID"`
	UserID      int64  `json:"UserID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	ImageURL    string `json:"ImageURL"`
	Category    string `json:"Category"`
}

// RecipeWithChildren is a recipe with its aggregated children.
// Both slices are non-nil so they encode as [] rather than null.
type RecipeWithChildren struct {
	Recipe
	Ingredients  []string `json:"Ingredients"`
	Instructions []string `json:"Instructions"`
}

// ProfileRecipe is a recipe as listed on its owner's profile.
type ProfileRecipe struct {
	ID           int64    `json:"RecipeID"`
	Title        string   `json:"Title"`
	Description  string   `json:"Description"`
	ImageURL     string   `json:"ImageURL"`
	Category     string   `json:"Category"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// Profile is the response of GET /api/user/profile.
type Profile struct {
	FirstName string          `json:"FirstName"`
	LastName  string          `json:"LastName"`
	Email     string          `json:"Email"`
	Recipes   []ProfileRecipe `json:"recipes"`
}
