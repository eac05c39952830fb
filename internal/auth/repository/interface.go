package repository

import (
	"context"
	"time"

	"ewaste_pickup_backend/platform/authz"

	"github.com/google/uuid"
)

// User is an account row.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        *string
	PasswordHash string
	Role         authz.Role
	CreatedAt    time.Time
}

// UserReader is the read side used by the service and cross-module adapters.
type UserReader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsersByRole(ctx context.Context, role authz.Role) ([]User, error)
}

// UserWriter creates accounts. There is no update path: roles are immutable.
type UserWriter interface {
	CreateUser(ctx context.Context, user User) (User, error)
}

type Repository interface {
	UserReader
	UserWriter
}
