// Package auth is the identity bounded context: accounts, login and the
// lookups other modules need about users.
package auth

import (
	"ewaste_pickup_backend/platform/authz"

	"github.com/google/uuid"
)

// UserInfo is the user data shared with other modules.
type UserInfo struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     authz.Role
}
