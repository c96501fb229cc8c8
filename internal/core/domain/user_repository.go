package domain

import (
	"context"
	"time"
)

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Gender       string
	PasswordHash string
	IsAPIUser    bool
	CreatedAt    time.Time
}

// ToUser drops the password hash.
func (r UserRow) ToUser() User {
	return User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Gender:    r.Gender,
		IsAPIUser: r.IsAPIUser,
		CreatedAt: r.CreatedAt,
	}
}

// NewUser carries the columns written at signup.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	Gender       string
	PasswordHash string
	IsAPIUser    bool
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user and returns the generated user ID.
	// Returns ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user NewUser) (int64, error)

	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int64) (*UserRow, error)

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]UserRow, error)

	// ListByGender returns the users with exactly the given gender, ordered by ID.
	ListByGender(ctx context.Context, gender string) ([]UserRow, error)
}
