// Package repository persists user accounts in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/authz"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userNotFoundMessage = "user not found"
	uniqueViolation     = "23505"
)

const userColumns = `id, username, email, password_hash, role, created_at`

const insertUserQuery = `
	INSERT INTO users (id, username, email, password_hash, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns

const listUsersByRoleQuery = `
	SELECT ` + userColumns + `
	FROM users
	WHERE role = $1
	ORDER BY username`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) CreateUser(ctx context.Context, user User) (User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	created, err := scanUser(r.pool.QueryRow(ctx, insertUserQuery,
		user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, apperr.Conflict("username or email already registered")
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (r *Repo) ListUsersByRole(ctx context.Context, role authz.Role) ([]User, error) {
	rows, err := r.pool.Query(ctx, listUsersByRoleQuery, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return User{}, err
	}
	u.Role = authz.Role(role)
	return u, nil
}
