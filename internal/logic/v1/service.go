package v1

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/recipe-service/internal/core/domain"
	"github.com/duynhne/recipe-service/middleware"
)

// TokenIssuer signs a bearer token for a user.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthService implements signup and signin.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// dummyPasswordHash is compared against on unknown emails so a miss costs the
// same bcrypt work as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("recipe-service-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generate dummy password hash: %v", err))
	}
	return hash
})

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Signup hashes the password and persists a new user.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (err error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()
	defer func() { observeAuth("signup", err) }()

	// Validate password length before hashing
	if len(req.Password) > MaxPasswordBytes {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return fmt.Errorf("signup %q: %d bytes: %w", req.Email, len(req.Password), ErrPasswordTooLong)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	// Insert user via repository
	userID, err := s.users.Create(ctx, domain.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Gender:       req.Gender,
		PasswordHash: string(passwordHash),
		IsAPIUser:    req.IsAPIUser,
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("signup.success", false))
		if errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("signup %q: %w", req.Email, ErrUserExists)
		}
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Bool("signup.success", true),
	)
	span.AddEvent("user.registered")

	return nil
}

// Signin verifies the credentials and returns a signed token.
// Unknown email and wrong password are both reported as ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, req domain.SigninRequest) (token string, err error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signin", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()
	defer func() { observeAuth("signin", err) }()

	// A password bcrypt cannot hash can never match a stored one
	if len(req.Password) > MaxPasswordBytes {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("signin %q: password too long: %w", req.Email, ErrInvalidCredentials)
	}

	// Lookup user by email via repository
	row, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user %q: %w", req.Email, err)
	}
	if row == nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(req.Password))
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("signin %q: unknown email: %w", req.Email, ErrInvalidCredentials)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("signin %q: %w", req.Email, ErrInvalidCredentials)
	}

	// Issue signed token
	token, err = s.tokens.Issue(row.ID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return token, nil
}
