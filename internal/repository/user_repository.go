package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pirouette/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// UpdateUserParams carries a partial update; nil fields are left unchanged.
// PasswordHash must already be hashed by the caller.
type UpdateUserParams struct {
	ID           string
	Name         *string
	Email        *string
	PasswordHash []byte
	Role         *models.UserRole
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, role, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)
	`

	row := r.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, params UpdateUserParams) (models.User, error) {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    password_hash = COALESCE($4, password_hash),
		    role = COALESCE($5, role),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, created_at, updated_at
	`

	var role *string
	if params.Role != nil {
		s := string(*params.Role)
		role = &s
	}

	row := r.pool.QueryRow(ctx, query,
		params.ID,
		params.Name,
		params.Email,
		params.PasswordHash,
		role,
	)
	user, err := scanUser(row)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateEmail
	}
	return user, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
