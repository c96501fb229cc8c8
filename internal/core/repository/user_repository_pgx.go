package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/recipe-service/internal/core/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

const userColumns = `id, first_name, last_name, email, gender, password_hash, is_api_user, created_at`

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// Create inserts a new user and returns the generated user ID.
func (r *PgxUserRepository) Create(ctx context.Context, user domain.NewUser) (int64, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, gender, password_hash, is_api_user)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var userID int64
	err := r.pool.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Gender, user.PasswordHash, user.IsAPIUser,
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("email %q: %w", user.Email, domain.ErrDuplicate)
		}
		return 0, err
	}

	return userID, nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByID returns the user with the given ID.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int64) (*domain.UserRow, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// List returns every user ordered by ID.
func (r *PgxUserRepository) List(ctx context.Context) ([]domain.UserRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

// ListByGender returns the users with exactly the given gender, ordered by ID.
func (r *PgxUserRepository) ListByGender(ctx context.Context, gender string) ([]domain.UserRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE gender = $1 ORDER BY id`, gender)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

func (r *PgxUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.UserRow, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func scanUser(row pgx.CollectableRow) (domain.UserRow, error) {
	var u domain.UserRow
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Gender,
		&u.PasswordHash, &u.IsAPIUser, &u.CreatedAt,
	)
	return u, err
}
