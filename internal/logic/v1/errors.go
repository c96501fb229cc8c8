// Package v1 provides the recipe-service business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for authentication, authorization and
// recipe workflow failures. They are wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods. Repository
// errors (domain.ErrNotFound, domain.ErrNotOwner, ...) are translated here and
// never reach the Web layer unwrapped.
//
// Example Usage:
//
//	if row == nil {
//	    return "", fmt.Errorf("signin %q: %w", email, ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrRecipeNotFound):
//	    c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found."})
//	case errors.Is(err, logicv1.ErrAccessDenied):
//	    c.JSON(http.StatusForbidden, gin.H{"error": "Access denied."})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for recipe-service operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrMissingToken indicates the request carried no bearer token.
	// HTTP Status: 401 Unauthorized
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken indicates the token is malformed, badly signed or carries no user.
	// HTTP Status: 400 Bad Request (recipes, profile) or 403 Forbidden (API-user routes)
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token was valid but is past its expiry.
	// Reported to clients exactly like ErrInvalidToken.
	ErrExpiredToken = errors.New("expired token")

	// ErrAccessDenied indicates the caller may not act on the resource.
	// HTTP Status: 403 Forbidden
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates unknown email or wrong password.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordTooLong indicates the password exceeds the bcrypt input limit.
	// HTTP Status: 400 Bad Request
	ErrPasswordTooLong = errors.New("password too long")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound indicates the user does not exist.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrRecipeNotFound indicates the recipe does not exist.
	// HTTP Status: 404 Not Found
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrRecipeDetailWrite indicates an ingredient or instruction write failed
	// and the whole recipe change was rolled back.
	// HTTP Status: 500 Internal Server Error
	ErrRecipeDetailWrite = errors.New("recipe details write failed")
)
